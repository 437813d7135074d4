// Package species looks up houseplant species for the add-plant flow. It
// queries an upstream plant database when an API key is configured and falls
// back to a built-in catalog of popular houseplants otherwise.
package species

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Species describes a plant species returned from search.
type Species struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ScientificName string `json:"scientific_name"`
	Family         string `json:"family,omitempty"`
	Genus          string `json:"genus,omitempty"`
	ImageURL       string `json:"image_url,omitempty"`
	Distribution   string `json:"distribution,omitempty"`
	Edible         bool   `json:"edible"`
}

// SearchResult is a page of species matches.
type SearchResult struct {
	Plants     []Species  `json:"plants"`
	Pagination Pagination `json:"pagination"`
}

// Pagination carries paging metadata for a search result.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Config holds species service configuration from environment variables.
type Config struct {
	APIKey string
}

// Service searches plant species. When no API key is configured, or the
// upstream is unreachable, searches fall back to the built-in catalog so the
// add-plant flow keeps working offline.
type Service struct {
	config  Config
	client  *http.Client
	baseURL string
}

// NewService creates a new species service with the given configuration.
func NewService(cfg Config) *Service {
	return &Service{
		config:  cfg,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://house-plants2.p.rapidapi.com",
	}
}

// Search finds species matching the query. page is 1-based; limit caps the
// page size.
func (s *Service) Search(ctx context.Context, query string, page, limit int) SearchResult {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	var matches []Species
	if s.config.APIKey != "" {
		upstream, err := s.searchUpstream(ctx, query)
		if err == nil {
			matches = upstream
		}
	}
	if matches == nil {
		matches = searchCatalog(query)
	}

	return paginate(matches, page, limit)
}

func paginate(plants []Species, page, limit int) SearchResult {
	start := (page - 1) * limit
	end := start + limit
	if start > len(plants) {
		start = len(plants)
	}
	if end > len(plants) {
		end = len(plants)
	}

	return SearchResult{
		Plants: plants[start:end],
		Pagination: Pagination{
			Total: len(plants),
			Page:  page,
			Limit: limit,
		},
	}
}

type upstreamPlant struct {
	ID             json.Number `json:"id"`
	Name           string      `json:"name"`
	CommonName     string      `json:"common_name"`
	ScientificName string      `json:"scientific_name"`
	Family         string      `json:"family"`
	Genus          string      `json:"genus"`
	ImageURL       string      `json:"image_url"`
	Origin         string      `json:"origin"`
	Edible         bool        `json:"edible"`
}

func (s *Service) searchUpstream(ctx context.Context, query string) ([]Species, error) {
	reqURL := fmt.Sprintf("%s/search?query=%s", s.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build species request: %w", err)
	}
	req.Header.Set("x-rapidapi-host", "house-plants2.p.rapidapi.com")
	req.Header.Set("x-rapidapi-key", s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("species API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("species API returned status %d", resp.StatusCode)
	}

	var raw []upstreamPlant
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode species response: %w", err)
	}

	species := make([]Species, 0, len(raw))
	for i, p := range raw {
		name := p.Name
		if name == "" {
			name = p.CommonName
		}
		if name == "" {
			name = p.ScientificName
		}
		if name == "" {
			name = "Unknown Plant"
		}

		id := p.ID.String()
		if id == "" {
			id = fmt.Sprintf("upstream-%d", i)
		}

		imageURL := p.ImageURL
		if imageURL == "" {
			imageURL = categoryImage(name, p.Family, p.Genus)
		}

		species = append(species, Species{
			ID:             id,
			Name:           name,
			ScientificName: p.ScientificName,
			Family:         p.Family,
			Genus:          p.Genus,
			ImageURL:       imageURL,
			Distribution:   p.Origin,
			Edible:         p.Edible,
		})
	}
	return species, nil
}

func searchCatalog(query string) []Species {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return append([]Species(nil), catalog...)
	}

	var matches []Species
	for _, p := range catalog {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.ScientificName), term) ||
			strings.Contains(strings.ToLower(p.Genus), term) ||
			strings.Contains(strings.ToLower(p.Family), term) {
			matches = append(matches, p)
		}
	}
	return matches
}

// Stock imagery by broad plant category, used when the upstream has no photo
// and for the built-in catalog.
const (
	imageFlowering = "https://images.unsplash.com/photo-1578662996442-48f60103fc96?w=400"
	imageSucculent = "https://images.unsplash.com/photo-1593691509543-c55fb32d8de5?w=400"
	imageTree      = "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=400"
	imageFern      = "https://images.unsplash.com/photo-1572688484438-313a6e50c50c?w=400"
	imageTropical  = "https://images.unsplash.com/photo-1545239705-1564e58b1789?w=400"
)

func categoryImage(name, family, genus string) string {
	n := strings.ToLower(name)
	f := strings.ToLower(family)
	g := strings.ToLower(genus)

	switch {
	case containsAny(n, "lily", "orchid", "rose", "daisy", "bird of paradise", "flower"):
		return imageFlowering
	case containsAny(n, "cactus", "succulent", "aloe", "jade", "echeveria", "sedum", "string of") ||
		containsAny(f, "cactaceae", "crassulaceae"):
		return imageSucculent
	case containsAny(n, "ficus", "fig", "rubber plant") || f == "moraceae" || g == "ficus":
		return imageTree
	case containsAny(n, "fern", "moss", "spider plant", "chlorophytum", "dracaena") ||
		f == "nephrolepidaceae":
		return imageFern
	case containsAny(n, "snake plant", "sansevieria"):
		return imageSucculent
	case containsAny(n, "monstera", "philodendron", "pothos", "anthurium", "calathea", "zz plant") ||
		containsAny(f, "araceae", "marantaceae"):
		return imageTropical
	default:
		return imageSucculent
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
