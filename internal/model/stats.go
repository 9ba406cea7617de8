package model

// Stats is the dashboard summary.
type Stats struct {
	TotalLivros       int64 `json:"total_livros"`
	TotalDoacoes      int64 `json:"total_doacoes"`
	DoacoesLivros     int64 `json:"doacoes_livros"`
	DoacoesJogos      int64 `json:"doacoes_jogos"`
	LivrosDisponiveis int64 `json:"livros_disponiveis"`
}
