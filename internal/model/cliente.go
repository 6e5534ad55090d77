package model

// Cliente is the recipient of a presupuesto.
type Cliente struct {
	ID        string `json:"Id"`
	Nombre    string `json:"Nombre"`
	CUIT      string `json:"Cuit,omitempty"`
	Email     string `json:"Email,omitempty"`
	Telefono  string `json:"Telefono,omitempty"`
	Direccion string `json:"Direccion,omitempty"`
}
