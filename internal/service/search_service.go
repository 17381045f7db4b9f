package service

import (
	"fmt"
	"html"
	"log"
	"os"
	"strings"
	"time"

	"github.com/greencycle/ecotrack-backend/internal/model"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

type SearchService interface {
	IndexReport(report *model.Report) error
	DeleteReport(id string) error
	GenerateSearchToken(userRole string) (string, error)
}

type meiliSearchService struct {
	client        meilisearch.ServiceManager
	masterKey     string
	signingKeyUID string
	signingKey    string
	sanitizer     *bluemonday.Policy
}

func NewMeiliSearchService(client meilisearch.ServiceManager) SearchService {
	masterKey := os.Getenv("MEILI_MASTER_KEY")
	if masterKey == "" {
		log.Println("WARNING: MEILI_MASTER_KEY is not set.")
	}

	s := &meiliSearchService{
		client:    client,
		masterKey: masterKey,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	s.initSigningKey()
	return s
}

func (s *meiliSearchService) initSigningKey() {
	// 1. List keys
	resp, err := s.client.GetKeys(&meilisearch.KeysQuery{
		Limit: 20,
	})
	if err != nil {
		log.Printf("Failed to get meilisearch keys: %v", err)
		return
	}

	// 2. Find existing key for signing
	for _, key := range resp.Results {
		if key.Name == "TenantTokenSigner" {
			s.signingKeyUID = key.UID
			s.signingKey = key.Key
			log.Println("Found existing Meilisearch signing key")
			return
		}
	}

	// 3. Create new key if not found
	expiry := time.Now().AddDate(100, 0, 0)

	key, err := s.client.CreateKey(&meilisearch.Key{
		Description: "Key to sign tenant tokens",
		Name:        "TenantTokenSigner",
		Actions:     []string{"search"},
		Indexes:     []string{"reports"},
		ExpiresAt:   expiry,
	})
	if err != nil {
		log.Printf("Failed to create signing key: %v", err)
		return
	}

	s.signingKeyUID = key.UID
	s.signingKey = key.Key
	log.Println("Created new Meilisearch signing key")
}

func (s *meiliSearchService) initIndexes() {
	filterableAttrs := []string{"status", "type", "severity", "zone"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	_, err := s.client.Index("reports").UpdateFilterableAttributes(&filterableInterface)
	if err != nil {
		log.Printf("Failed to update reports filterable attributes: %v", err)
	}

	sortableAttrs := []string{"created_at"}
	_, err = s.client.Index("reports").UpdateSortableAttributes(&sortableAttrs)
	if err != nil {
		log.Printf("Failed to update reports sortable attributes: %v", err)
	}

	log.Println("Meilisearch indexes initialized")
}

type meiliReportDoc struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Severity    string          `json:"severity"`
	Status      string          `json:"status"`
	Zone        string          `json:"zone"`
	Address     string          `json:"address"`
	CreatedAt   int64           `json:"created_at"`
	Reporter    meiliUserSubset `json:"reporter"`
}

type meiliUserSubset struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

func (s *meiliSearchService) cleanContentForIndex(content string) string {
	sanitized := s.sanitizer.Sanitize(content)
	cleanText := html.UnescapeString(sanitized)
	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *meiliSearchService) IndexReport(report *model.Report) error {
	doc := meiliReportDoc{
		ID:          report.ID.String(),
		Description: s.cleanContentForIndex(report.Description),
		Type:        string(report.Type),
		Severity:    string(report.Severity),
		Status:      string(report.Status),
		Zone:        report.Zone,
		Address:     report.Address,
		CreatedAt:   report.CreatedAt.Unix(),
		Reporter: meiliUserSubset{
			Username:  report.Reporter.Username,
			AvatarURL: getStringOrEmpty(report.Reporter.AvatarURL),
		},
	}

	task, err := s.client.Index("reports").AddDocuments([]meiliReportDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed report %s, task id: %d", report.ID, task.TaskUID)
	return nil
}

func (s *meiliSearchService) DeleteReport(id string) error {
	_, err := s.client.Index("reports").DeleteDocument(id)
	return err
}

func getStringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// GenerateSearchToken returns a tenant token scoping search results by role:
// staff see everything, citizens only non-cancelled reports.
func (s *meiliSearchService) GenerateSearchToken(userRole string) (string, error) {
	if s.signingKeyUID == "" || s.signingKey == "" {
		return "", fmt.Errorf("signing key not initialized")
	}

	searchRules := map[string]any{
		"reports": map[string]any{},
	}

	switch userRole {
	case model.RoleAdmin, model.RoleWorker:
		searchRules["reports"] = map[string]any{"filter": nil}
	default:
		searchRules["reports"] = map[string]any{
			"filter": "status != 'cancelled'",
		}
	}

	token, err := s.client.GenerateTenantToken(s.signingKeyUID, searchRules, &meilisearch.TenantTokenOptions{
		APIKey:    s.signingKey,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})

	if err != nil {
		return "", err
	}

	return token, nil
}

func strPtr(s string) *string {
	return &s
}
