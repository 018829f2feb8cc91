package domain

import "errors"

// ErrRateLimited sinaliza requisição válida porém acima do limite da janela.
// Nenhum dado é mutado quando ele ocorre.
var ErrRateLimited = errors.New("rate limited")

// ValidationError é erro causado pelo cliente (formato de sessionId ou humor
// inválido). A requisição nunca chega ao caminho de escrita do armazenamento.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field
}

// StoreError envolve qualquer falha de comunicação com o armazenamento.
// O detalhe vai para o log do servidor; a resposta ao cliente é genérica.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return "store: " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
