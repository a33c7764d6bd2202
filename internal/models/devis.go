package models

import "time"

// Devis realization statuses. Free-form strings in storage; these are the
// values the lifecycle evaluator and the dashboard agree on.
const (
	StatutBrouillon = "Brouillon"
	StatutEnCours   = "En cours"
	StatutTermine   = "Terminé"
	StatutAnnule    = "Annulé"
)

// Devis is a client work quotation. Created empty (only a DAC number) by a
// manager, then filled in via full-record update.
type Devis struct {
	ID                string      `gorm:"primaryKey" json:"id"`
	NumeroDac         string      `gorm:"not null;index" json:"numero_dac"`
	Libelle           string      `json:"libelle"`
	Version           int         `json:"version"`
	DateEmission      *time.Time  `json:"date_emission"`
	Pole              string      `json:"pole"`
	Application       string      `json:"application"`
	DateDebut         *time.Time  `json:"date_debut"`
	DateFin           *time.Time  `json:"date_fin"`
	ChargeHJ          *float64    `json:"charge_hj"`
	Montant           float64     `json:"montant"`
	Statut            string      `json:"statut"`
	StatutRealisation string      `json:"statut_realisation"`
	JourHommeConsomme *float64    `json:"jour_homme_consomme"`
	Ecart             *float64    `json:"ecart"`
	HommeJourActive   bool        `json:"hommeJourActive"`
	Users             []UserDevis `gorm:"foreignKey:DevisID" json:"users,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName pins the table name; gorm's pluralizer mangles the French word.
func (Devis) TableName() string { return "devis" }

// UserDevis is the join row assigning a user to a devis.
type UserDevis struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	DevisID string `gorm:"not null;index" json:"devisId"`
	UserID  uint   `gorm:"not null;index" json:"userId"`
	User    User   `gorm:"foreignKey:UserID" json:"user"`
}

func (UserDevis) TableName() string { return "user_devis" }
