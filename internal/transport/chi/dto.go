package chi

import (
	"time"

	"github.com/protoguide/protoguide/internal/domain/agency"
	"github.com/protoguide/protoguide/internal/domain/history"
	"github.com/protoguide/protoguide/internal/domain/identity"
	"github.com/protoguide/protoguide/internal/domain/protocol"
	"github.com/protoguide/protoguide/internal/domain/search/result"
	searchuc "github.com/protoguide/protoguide/internal/usecase/search"
)

type searchResultItem struct {
	ID             int64      `json:"id"`
	AgencyID       int64      `json:"agencyId"`
	AgencyName     string     `json:"agencyName"`
	Region         string     `json:"region"`
	ProtocolNumber string     `json:"protocolNumber"`
	ProtocolTitle  string     `json:"protocolTitle"`
	Section        *string    `json:"section,omitempty"`
	Content        string     `json:"content"`
	SourceURL      *string    `json:"sourceUrl,omitempty"`
	ProtocolYear   *int       `json:"protocolYear,omitempty"`
	LastVerifiedAt *time.Time `json:"lastVerifiedAt,omitempty"`
	RelevanceScore float64    `json:"relevanceScore"`
}

// searchResponse renders a missing answer as JSON null.
type searchResponse struct {
	Results    []searchResultItem `json:"results"`
	Answer     *string            `json:"answer"`
	TotalCount int                `json:"totalCount"`
}

type statsResponse struct {
	TotalProtocols int64 `json:"totalProtocols"`
	TotalAgencies  int64 `json:"totalAgencies"`
	RegionsCovered int64 `json:"regionsCovered"`
}

type chunkResponse struct {
	ID             int64      `json:"id"`
	AgencyID       int64      `json:"agencyId"`
	ProtocolNumber string     `json:"protocolNumber"`
	ProtocolTitle  string     `json:"protocolTitle"`
	Section        *string    `json:"section,omitempty"`
	Content        string     `json:"content"`
	SourceURL      *string    `json:"sourceUrl,omitempty"`
	EffectiveDate  *string    `json:"effectiveDate,omitempty"`
	ProtocolYear   *int       `json:"protocolYear,omitempty"`
	LastVerifiedAt *time.Time `json:"lastVerifiedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type agencyResponse struct {
	ID                    int64     `json:"id"`
	Name                  string    `json:"name"`
	Region                string    `json:"region"`
	UsesRegionalProtocols bool      `json:"usesRegionalProtocols"`
	ProtocolVersion       *string   `json:"protocolVersion,omitempty"`
	CreatedAt             time.Time `json:"createdAt"`
}

type agencyCountResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Region        string `json:"region"`
	ProtocolCount int64  `json:"protocolCount"`
}

type regionResponse struct {
	Region        string `json:"region"`
	AgencyCount   int64  `json:"agencyCount"`
	ProtocolCount int64  `json:"protocolCount"`
}

type userResponse struct {
	ID               int64   `json:"id"`
	OpenID           string  `json:"openId"`
	Name             *string `json:"name"`
	Email            *string `json:"email"`
	Role             string  `json:"role"`
	Tier             string  `json:"tier"`
	QueryCountToday  int     `json:"queryCountToday"`
	DailyLimit       int     `json:"dailyLimit"`
	Remaining        int     `json:"remaining"`
	SelectedAgencyID *int64  `json:"selectedAgencyId"`
}

type selectAgencyRequest struct {
	AgencyID *int64 `json:"agencyId"`
}

type historyItemResponse struct {
	ID           int64     `json:"id"`
	QueryText    string    `json:"queryText"`
	ResponseText *string   `json:"responseText"`
	AgencyName   string    `json:"agencyName"`
	Region       string    `json:"region"`
	CreatedAt    time.Time `json:"createdAt"`
}

type healthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version"`
}

func searchToDTO(resp searchuc.Response) searchResponse {
	items := make([]searchResultItem, len(resp.Results))
	for i := range resp.Results {
		items[i] = resultToDTO(&resp.Results[i])
	}
	return searchResponse{
		Results:    items,
		Answer:     resp.Answer.Ptr(),
		TotalCount: resp.TotalCount,
	}
}

func resultToDTO(r *result.Result) searchResultItem {
	return searchResultItem{
		ID:             r.ID(),
		AgencyID:       r.AgencyID(),
		AgencyName:     r.AgencyName(),
		Region:         r.Region(),
		ProtocolNumber: r.ProtocolNumber(),
		ProtocolTitle:  r.Title(),
		Section:        r.Section(),
		Content:        r.Content(),
		SourceURL:      r.SourceURL(),
		ProtocolYear:   r.Year(),
		LastVerifiedAt: r.LastVerifiedAt(),
		RelevanceScore: r.Score(),
	}
}

func chunkToDTO(c protocol.Chunk) chunkResponse {
	return chunkResponse{
		ID:             c.ID,
		AgencyID:       c.AgencyID,
		ProtocolNumber: c.Number,
		ProtocolTitle:  c.Title,
		Section:        c.Section,
		Content:        c.Content,
		SourceURL:      c.SourceURL,
		EffectiveDate:  c.EffectiveDate,
		ProtocolYear:   c.Year,
		LastVerifiedAt: c.LastVerifiedAt,
		CreatedAt:      c.CreatedAt,
	}
}

func agencyToDTO(a agency.Agency) agencyResponse {
	return agencyResponse{
		ID:                    a.ID,
		Name:                  a.Name,
		Region:                a.Region,
		UsesRegionalProtocols: a.UsesRegionalProtocols,
		ProtocolVersion:       a.ProtocolVersion,
		CreatedAt:             a.CreatedAt,
	}
}

func userToDTO(id identity.Identity, today identity.Day, limit, remaining int) userResponse {
	return userResponse{
		ID:               id.ID,
		OpenID:           id.Subject,
		Name:             id.Name,
		Email:            id.Email,
		Role:             id.Role,
		Tier:             string(id.Tier),
		QueryCountToday:  id.Quota.CountFor(today),
		DailyLimit:       limit,
		Remaining:        remaining,
		SelectedAgencyID: id.SelectedAgencyID,
	}
}

func historyToDTO(items []history.Item) []historyItemResponse {
	out := make([]historyItemResponse, len(items))
	for i, it := range items {
		out[i] = historyItemResponse{
			ID:           it.ID,
			QueryText:    it.QueryText,
			ResponseText: it.ResponseText,
			AgencyName:   it.AgencyName,
			Region:       it.Region,
			CreatedAt:    it.CreatedAt,
		}
	}
	return out
}
