package service

import (
	"context"
	"database/sql"

	"github.com/iliyamo/biblioteca-doacoes/internal/database"
	"github.com/iliyamo/biblioteca-doacoes/internal/model"
	"github.com/iliyamo/biblioteca-doacoes/internal/repository"
)

// SampleBooks is the starter catalog inserted into an empty database.
var SampleBooks = []model.Book{
	{Titulo: "O Alquimista", Autor: "Paulo Coelho", Quantidade: 5},
	{Titulo: "1984", Autor: "George Orwell", Quantidade: 3},
	{Titulo: "Dom Casmurro", Autor: "Machado de Assis", Quantidade: 2},
	{Titulo: "O Pequeno Príncipe", Autor: "Antoine de Saint-Exupéry", Quantidade: 4},
	{Titulo: "Clean Code", Autor: "Robert C. Martin", Quantidade: 1},
	{Titulo: "Harry Potter e a Pedra Filosofal", Autor: "J.K. Rowling", Quantidade: 0},
	{Titulo: "O Hobbit", Autor: "J.R.R. Tolkien", Quantidade: 3},
	{Titulo: "Sapiens", Autor: "Yuval Noah Harari", Quantidade: 2},
}

// SeedBooks inserts books when the catalog is empty and returns how many
// were added.  A catalog with any row is left alone.
func SeedBooks(ctx context.Context, db *sql.DB, books []model.Book) (int, error) {
	added := 0
	err := database.WithTx(ctx, db, func(tx *sql.Tx) error {
		repo := repository.NewBookRepo(tx)
		n, err := repo.Count(ctx)
		if err != nil || n > 0 {
			return err
		}
		t := now()
		for i := range books {
			b := books[i]
			if err := repo.Create(ctx, &b, t); err != nil {
				return err
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}
