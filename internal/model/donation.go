package model

import "time"

// Donation types accepted in doacoes.tipo.
const (
	DonationTypeBook = "livro"
	DonationTypeGame = "jogo"
)

// Donation represents a row in the `doacoes` table.  LivroID is set only
// for book donations and points at the catalog entry whose stock was taken.
type Donation struct {
	ID        int64     `json:"id"`         // doacoes.id
	Nome      string    `json:"nome"`       // doacoes.nome
	Email     string    `json:"email"`      // doacoes.email
	Tipo      string    `json:"tipo"`       // doacoes.tipo (livro|jogo)
	Item      string    `json:"item"`       // doacoes.item
	LivroID   *int64    `json:"livro_id"`   // doacoes.livro_id (nullable)
	CreatedAt time.Time `json:"created_at"` // doacoes.created_at
}

// ValidDonationType reports whether t is one of the accepted donation types.
func ValidDonationType(t string) bool {
	return t == DonationTypeBook || t == DonationTypeGame
}
