// Package model defines the core domain models used throughout the application.
package model

// DetectedEntities holds identifiers pulled out of a raw descriptor before
// it is cleaned. At most one of CNPJ and CPF is set.
type DetectedEntities struct {
	CNPJ           string `json:"cnpj,omitempty"`
	CPF            string `json:"cpf,omitempty"`
	Email          string `json:"email,omitempty"`
	Domain         string `json:"domain,omitempty"`
	Platform       string `json:"platform,omitempty"`
	IsIntermediary bool   `json:"isIntermediary,omitempty"`
}

// NormalizedDescriptor is the cleaned form of a statement line.
type NormalizedDescriptor struct {
	Original      string           `json:"original"`
	Normalized    string           `json:"normalized"`
	NormalizedKey string           `json:"normalizedKey"`
	Tokens        []string         `json:"tokens"`
	Entities      DetectedEntities `json:"entities"`
}

// PixKeyType identifies the structural kind of a PIX key.
type PixKeyType string

// PIX key kinds, in detection order.
const (
	PixKeyPhone  PixKeyType = "PHONE"
	PixKeyEmail  PixKeyType = "EMAIL"
	PixKeyCPF    PixKeyType = "CPF"
	PixKeyCNPJ   PixKeyType = "CNPJ"
	PixKeyRandom PixKeyType = "RANDOM"
)

// PixInfo describes an instant-payment (PIX) transfer found in a descriptor.
type PixInfo struct {
	PixKey     string     `json:"pixKey,omitempty"`
	PixKeyType PixKeyType `json:"pixKeyType,omitempty"`
	IsPix      bool       `json:"isPix"`
}
