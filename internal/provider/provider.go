// Package provider models stand-builder profiles and their directory store.
//
// The directory is read-mostly: profiles are created and updated by the
// builder-management collaborator, while matching only reads snapshots.
// The remaining lead-credit balance is the one exception — it is mutated
// exclusively through the allocation ledger, never through this store.
package provider

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/expostand/matchengine/internal/plan"
)

var (
	ErrNotFound  = errors.New("provider: not found")
	ErrMissingID = errors.New("provider: missing id")
)

// Status represents a builder profile's lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusInactive  Status = "inactive"
)

// ResponseClass buckets how quickly a builder typically responds.
type ResponseClass string

const (
	ResponseFast     ResponseClass = "fast"
	ResponseStandard ResponseClass = "standard"
	ResponseSlow     ResponseClass = "slow"
)

// Location is a city/country pair a builder serves.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// Provider is a stand-building company profile.
type Provider struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	HQ              Location      `json:"hq"`
	ServedLocations []Location    `json:"servedLocations,omitempty"`
	Tags            []string      `json:"tags,omitempty"` // capabilities
	Certifications  []string      `json:"certifications,omitempty"`
	Rating          float64       `json:"rating"` // 0..5
	ReviewCount     int           `json:"reviewCount"`
	CompletedCount  int           `json:"completedCount"`
	PortfolioCount  int           `json:"portfolioCount"`
	FoundedYear     int           `json:"foundedYear"`
	ResponseClass   ResponseClass `json:"responseClass"`
	Verified        bool          `json:"verified"`
	PremiumMember   bool          `json:"premiumMember"`
	Status          Status        `json:"status"`
	Plan            plan.Tier     `json:"plan"`
	LeadCredits     int           `json:"leadCredits"` // snapshot; ledger is authoritative
	LastActiveAt    time.Time     `json:"lastActiveAt"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// YearsActive returns full years since founding, capped at nothing here;
// the scorer applies its own saturation.
func (p *Provider) YearsActive(now time.Time) int {
	if p.FoundedYear <= 0 {
		return 0
	}
	years := now.Year() - p.FoundedYear
	if years < 0 {
		return 0
	}
	return years
}

// ServesCountry reports whether any served location is in the country.
func (p *Provider) ServesCountry(country string) bool {
	for _, loc := range p.ServedLocations {
		if strings.EqualFold(loc.Country, country) {
			return true
		}
	}
	return false
}

// ServesCity reports whether any served location matches the city.
func (p *Provider) ServesCity(city string) bool {
	for _, loc := range p.ServedLocations {
		if strings.EqualFold(loc.City, city) {
			return true
		}
	}
	return false
}

// Store persists builder profiles.
type Store interface {
	Upsert(ctx context.Context, p *Provider) error
	Get(ctx context.Context, id string) (*Provider, error)
	// ListByCountry returns active builders headquartered in or serving
	// the country. Used by the HTTP layer to assemble region candidates
	// when the caller does not supply its own set.
	ListByCountry(ctx context.Context, country string, limit int) ([]*Provider, error)
}
