package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nassimdv/workload-app/internal/models"
)

func TestSearchMatchesAcrossEntities(t *testing.T) {
	db := setupTestDB(t)
	h := NewSearchHandler(db)

	project := models.Project{Name: "Refonte Portail"}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	if err := db.Create(&models.User{CognitoID: "c-1", Username: "refontenaute"}).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := db.Create(&models.Task{Title: "Cadrage refonte", ProjectID: project.ID}).Error; err != nil {
		t.Fatalf("seed task: %v", err)
	}
	if err := db.Create(&models.Task{Title: "Autre chose", ProjectID: project.ID}).Error; err != nil {
		t.Fatalf("seed task: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/search?q=REFONTE", nil)
	w := httptest.NewRecorder()
	h.Search(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var resp struct {
		Tasks    []models.Task    `json:"tasks"`
		Projects []models.Project `json:"projects"`
		Users    []models.User    `json:"users"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Tasks) != 1 || len(resp.Projects) != 1 || len(resp.Users) != 1 {
		t.Fatalf("unexpected match counts: tasks=%d projects=%d users=%d",
			len(resp.Tasks), len(resp.Projects), len(resp.Users))
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	db := setupTestDB(t)
	h := NewSearchHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	w := httptest.NewRecorder()
	h.Search(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "missing_query") {
		t.Fatalf("expected missing_query body=%s", w.Body.String())
	}
}
