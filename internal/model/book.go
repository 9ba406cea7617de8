package model

import "time"

// Book represents a row in the `livros` table.  Quantidade is the number
// of copies currently available for donation and is never negative.
type Book struct {
	ID         int64     `json:"id"`         // livros.id
	Titulo     string    `json:"titulo"`     // livros.titulo
	Autor      string    `json:"autor"`      // livros.autor
	Quantidade int       `json:"quantidade"` // livros.quantidade
	CreatedAt  time.Time `json:"created_at"` // livros.created_at
	UpdatedAt  time.Time `json:"updated_at"` // livros.updated_at
}
