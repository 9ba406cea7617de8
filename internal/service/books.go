package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/biblioteca-doacoes/internal/database"
	"github.com/iliyamo/biblioteca-doacoes/internal/model"
	"github.com/iliyamo/biblioteca-doacoes/internal/repository"
	"github.com/iliyamo/biblioteca-doacoes/internal/utils"
)

const (
	msgBookRequired    = "Título e autor são obrigatórios"
	msgNegativeQty     = "Quantidade não pode ser negativa"
	msgBookExists      = "Já existe um livro com este título e autor"
	msgOtherBookExists = "Já existe outro livro com este título e autor"
	msgBookInUse       = "Não é possível excluir este livro pois existem %d doação(ões) relacionada(s)"
	msgBookNotFound    = "Livro não encontrado"
)

// maxTitleLen is the width of livros.titulo and livros.autor.
const maxTitleLen = 255

// BookInput carries the editable fields of a catalog entry.
type BookInput struct {
	Titulo     string
	Autor      string
	Quantidade int
}

func (in *BookInput) normalize() error {
	in.Titulo = strings.TrimSpace(in.Titulo)
	in.Autor = strings.TrimSpace(in.Autor)
	if in.Titulo == "" || in.Autor == "" {
		return validation(msgBookRequired)
	}
	if utils.TooLong(in.Titulo, maxTitleLen) {
		return validation(fmt.Sprintf(msgFieldTooLong, "Título", maxTitleLen))
	}
	if utils.TooLong(in.Autor, maxTitleLen) {
		return validation(fmt.Sprintf(msgFieldTooLong, "Autor", maxTitleLen))
	}
	if in.Quantidade < 0 {
		return validation(msgNegativeQty)
	}
	return nil
}

// BookService manages the catalog.
type BookService struct {
	db *sql.DB
}

func NewBookService(db *sql.DB) *BookService { return &BookService{db: db} }

// List returns the catalog ordered by title, optionally filtered by a
// case-insensitive substring of title or author.
func (s *BookService) List(ctx context.Context, search string) ([]model.Book, error) {
	return repository.NewBookRepo(s.db).List(ctx, search)
}

// Get returns one book.
func (s *BookService) Get(ctx context.Context, id int64) (*model.Book, error) {
	b, err := repository.NewBookRepo(s.db).GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(msgBookNotFound)
	}
	return b, err
}

// Create adds a book after checking that no other book has the same title
// and author.
func (s *BookService) Create(ctx context.Context, in BookInput) (*model.Book, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	b := &model.Book{Titulo: in.Titulo, Autor: in.Autor, Quantidade: in.Quantidade}
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		books := repository.NewBookRepo(tx)
		taken, err := books.TitleAuthorTaken(ctx, in.Titulo, in.Autor, 0)
		if err != nil {
			return err
		}
		if taken {
			return conflict(msgBookExists)
		}
		return books.Create(ctx, b, now())
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, conflict(msgBookExists)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Update replaces title, author and quantity of an existing book.
func (s *BookService) Update(ctx context.Context, id int64, in BookInput) (*model.Book, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	var b *model.Book
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		books := repository.NewBookRepo(tx)
		cur, err := books.GetByID(ctx, id)
		if err != nil {
			return err
		}
		taken, err := books.TitleAuthorTaken(ctx, in.Titulo, in.Autor, id)
		if err != nil {
			return err
		}
		if taken {
			return conflict(msgOtherBookExists)
		}
		cur.Titulo, cur.Autor, cur.Quantidade = in.Titulo, in.Autor, in.Quantidade
		if err := books.Update(ctx, cur, now()); err != nil {
			return err
		}
		b = cur
		return nil
	})
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, notFound(msgBookNotFound)
	case errors.Is(err, repository.ErrDuplicate):
		return nil, conflict(msgOtherBookExists)
	case err != nil:
		return nil, err
	}
	return b, nil
}

// SetQuantity overwrites only the stock of a book.
func (s *BookService) SetQuantity(ctx context.Context, id int64, quantidade int) (*model.Book, error) {
	if quantidade < 0 {
		return nil, validation(msgNegativeQty)
	}
	var b *model.Book
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		books := repository.NewBookRepo(tx)
		cur, err := books.GetByID(ctx, id)
		if err != nil {
			return err
		}
		t := now()
		if err := books.SetQuantity(ctx, id, quantidade, t); err != nil {
			return err
		}
		cur.Quantidade, cur.UpdatedAt = quantidade, t
		b = cur
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(msgBookNotFound)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Delete removes a book that no donation references.
func (s *BookService) Delete(ctx context.Context, id int64) error {
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := repository.NewBookRepo(tx).GetByID(ctx, id); err != nil {
			return err
		}
		refs, err := repository.NewDonationRepo(tx).CountByBook(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return conflict(msgBookInUse, refs)
		}
		return repository.NewBookRepo(tx).Delete(ctx, id)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(msgBookNotFound)
	}
	return err
}
