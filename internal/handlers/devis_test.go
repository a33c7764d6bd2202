package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nassimdv/workload-app/internal/models"
	"github.com/nassimdv/workload-app/internal/services"
)

func TestDevisCreateEmptyAndGet(t *testing.T) {
	db := setupTestDB(t)
	h := NewDevisHandler(db, services.NewLifecycle(db))

	req := httptest.NewRequest(http.MethodPost, "/devis", strings.NewReader(`{"numero_dac":"DAC-2024-001"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.CreateEmpty(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var created models.Devis
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || created.NumeroDac != "DAC-2024-001" || created.Version != 1 {
		t.Fatalf("unexpected created devis: %+v", created)
	}

	getReq := httptest.NewRequest(http.MethodGet, "/devis/"+created.ID, nil)
	getReq.SetPathValue("id", created.ID)
	getW := httptest.NewRecorder()
	h.Get(getW, getReq)
	if getW.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", getW.Code)
	}
}

func TestDevisCreateEmptyRequiresNumeroDac(t *testing.T) {
	db := setupTestDB(t)
	h := NewDevisHandler(db, services.NewLifecycle(db))

	req := httptest.NewRequest(http.MethodPost, "/devis", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	h.CreateEmpty(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "validation_failed") {
		t.Fatalf("expected validation_failed body=%s", w.Body.String())
	}
}

func TestDevisUpdateRejectsBadDates(t *testing.T) {
	db := setupTestDB(t)
	h := NewDevisHandler(db, services.NewLifecycle(db))
	seed := models.Devis{ID: "d-1", NumeroDac: "DAC-1", Version: 1}
	if err := db.Create(&seed).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	body := `{"libelle":"Refonte","date_emission":"not-a-date","date_debut":"2024-01-01","date_fin":"2024-06-30"}`
	req := httptest.NewRequest(http.MethodPut, "/devis/d-1", strings.NewReader(body))
	req.SetPathValue("id", "d-1")
	w := httptest.NewRecorder()
	h.Update(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "invalid_date_format") {
		t.Fatalf("expected invalid_date_format body=%s", w.Body.String())
	}

	// Record must be untouched.
	var got models.Devis
	if err := db.First(&got, "id = ?", "d-1").Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Libelle != "" {
		t.Fatalf("devis must not be updated on validation failure: %+v", got)
	}
}

func TestDevisUpdateReplacesUserAssignments(t *testing.T) {
	db := setupTestDB(t)
	h := NewDevisHandler(db, services.NewLifecycle(db))
	seed := models.Devis{ID: "d-1", NumeroDac: "DAC-1", Version: 1}
	if err := db.Create(&seed).Error; err != nil {
		t.Fatalf("seed devis: %v", err)
	}
	old := models.User{CognitoID: "c-old", Username: "old"}
	if err := db.Create(&old).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := db.Create(&models.UserDevis{DevisID: "d-1", UserID: old.UserID}).Error; err != nil {
		t.Fatalf("seed join: %v", err)
	}

	body := `{
		"libelle":"Refonte SI",
		"date_emission":"2024-01-15",
		"date_debut":"2024-02-01",
		"date_fin":"2024-06-30",
		"montant":120000,
		"statut":"Validé",
		"statut_realisation":"En cours",
		"hommeJourActive":true,
		"users":[{"user":{"username":"alice","cognitoId":"c-alice","profile":"Dev"}}]
	}`
	req := httptest.NewRequest(http.MethodPut, "/devis/d-1", strings.NewReader(body))
	req.SetPathValue("id", "d-1")
	w := httptest.NewRecorder()
	h.Update(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var joins []models.UserDevis
	if err := db.Where("devis_id = ?", "d-1").Find(&joins).Error; err != nil {
		t.Fatalf("joins: %v", err)
	}
	if len(joins) != 1 {
		t.Fatalf("expected assignment set replaced, got %d rows", len(joins))
	}
	var alice models.User
	if err := db.First(&alice, "cognito_id = ?", "c-alice").Error; err != nil {
		t.Fatalf("expected alice upserted: %v", err)
	}
	if joins[0].UserID != alice.UserID {
		t.Fatalf("join row points at wrong user")
	}
	var updated models.Devis
	if err := db.First(&updated, "id = ?", "d-1").Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if updated.Libelle != "Refonte SI" || updated.Montant != 120000 || !updated.HommeJourActive {
		t.Fatalf("fields not persisted: %+v", updated)
	}
	if updated.DateDebut == nil || !updated.DateDebut.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date_debut not persisted: %v", updated.DateDebut)
	}
}

func TestDevisDeleteCascadesJoinRows(t *testing.T) {
	db := setupTestDB(t)
	h := NewDevisHandler(db, services.NewLifecycle(db))
	seed := models.Devis{ID: "d-1", NumeroDac: "DAC-1", Version: 1}
	if err := db.Create(&seed).Error; err != nil {
		t.Fatalf("seed devis: %v", err)
	}
	user := models.User{CognitoID: "c-1", Username: "alice"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := db.Create(&models.UserDevis{DevisID: "d-1", UserID: user.UserID}).Error; err != nil {
		t.Fatalf("seed join: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/devis/d-1", nil)
	req.SetPathValue("id", "d-1")
	w := httptest.NewRecorder()
	h.Delete(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var joinCount int64
	db.Model(&models.UserDevis{}).Where("devis_id = ?", "d-1").Count(&joinCount)
	if joinCount != 0 {
		t.Fatalf("expected join rows removed, got %d", joinCount)
	}

	// Second fetch must 404.
	getReq := httptest.NewRequest(http.MethodGet, "/devis/d-1", nil)
	getReq.SetPathValue("id", "d-1")
	getW := httptest.NewRecorder()
	h.Get(getW, getReq)
	if getW.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete got %d", getW.Code)
	}
	if !strings.Contains(getW.Body.String(), "devis_not_found") {
		t.Fatalf("expected devis_not_found body=%s", getW.Body.String())
	}
}

func TestDevisListAdvancesExpiredStatuses(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	lifecycle := &services.Lifecycle{DB: db, Now: func() time.Time { return now }}
	h := NewDevisHandler(db, lifecycle)

	expired := models.Devis{
		ID: "d-1", NumeroDac: "DAC-1",
		DateFin:           timePtr(now.AddDate(0, 0, -2)),
		StatutRealisation: models.StatutEnCours,
	}
	if err := db.Create(&expired).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/devis", nil)
	w := httptest.NewRecorder()
	h.List(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var list []models.Devis
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].StatutRealisation != models.StatutTermine {
		t.Fatalf("expected status advanced in list response: %+v", list)
	}
}
