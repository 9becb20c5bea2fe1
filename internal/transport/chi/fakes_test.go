package chi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/protoguide/protoguide/internal/auth"
	"github.com/protoguide/protoguide/internal/domain"
	"github.com/protoguide/protoguide/internal/domain/agency"
	"github.com/protoguide/protoguide/internal/domain/history"
	"github.com/protoguide/protoguide/internal/domain/identity"
	"github.com/protoguide/protoguide/internal/domain/protocol"
	"github.com/protoguide/protoguide/internal/domain/search/request"
	healthuc "github.com/protoguide/protoguide/internal/usecase/health"
	searchuc "github.com/protoguide/protoguide/internal/usecase/search"
)

const testSecret = "transport-secret"

var testToday = identity.Day("2026-10-15")

type fakeSearch struct {
	resp    searchuc.Response
	err     error
	gotReq  request.Request
	gotID   identity.Identity
	called  bool
	tokens  int
	chunks  []protocol.Chunk
	stats   protocol.Stats
	readErr error
}

func (f *fakeSearch) Search(ctx context.Context, id identity.Identity, req request.Request) (searchuc.Response, error) {
	f.called = true
	f.gotReq = req
	f.gotID = id
	if f.tokens > 0 {
		domain.UsageFromContext(ctx).AddTokens(f.tokens/2, f.tokens)
	}
	return f.resp, f.err
}

func (f *fakeSearch) ByAgency(context.Context, int64) ([]protocol.Chunk, error) {
	return f.chunks, f.readErr
}

func (f *fakeSearch) Stats(context.Context) (protocol.Stats, error) {
	return f.stats, f.readErr
}

type fakeAgencies struct {
	byID    map[int64]agency.Agency
	list    []agency.Agency
	regions []agency.RegionSummary
	counts  []agency.WithCount
	err     error
}

func (f *fakeAgencies) Get(_ context.Context, id int64) (agency.Agency, error) {
	if f.err != nil {
		return agency.Agency{}, f.err
	}
	a, ok := f.byID[id]
	if !ok {
		return agency.Agency{}, domain.ErrNotFound
	}
	return a, nil
}

func (f *fakeAgencies) List(context.Context) ([]agency.Agency, error) { return f.list, f.err }

func (f *fakeAgencies) ListByRegion(context.Context, string) ([]agency.WithCount, error) {
	return f.counts, f.err
}

func (f *fakeAgencies) ListRegions(context.Context) ([]agency.RegionSummary, error) {
	return f.regions, f.err
}

type fakeIdentities struct {
	bySubject  map[string]identity.Identity
	resolveErr error
	selected   int64
	selectErr  error
}

func (f *fakeIdentities) Resolve(_ context.Context, subject string) (identity.Identity, error) {
	if f.resolveErr != nil {
		return identity.Identity{}, f.resolveErr
	}
	id, ok := f.bySubject[subject]
	if !ok {
		return identity.Identity{}, domain.ErrUnauthorized
	}
	return id, nil
}

func (f *fakeIdentities) SelectAgency(_ context.Context, _ identity.Identity, agencyID int64) error {
	if f.selectErr != nil {
		return f.selectErr
	}
	f.selected = agencyID
	return nil
}

type fakeHistory struct {
	items []history.Item
	err   error
}

func (f *fakeHistory) List(context.Context, int64) ([]history.Item, error) { return f.items, f.err }

type fakeQuota struct{}

func (fakeQuota) Today() identity.Day { return testToday }

func (q fakeQuota) Limit(id identity.Identity) int {
	if id.Tier.Paid() {
		return identity.PaidDailyLimit
	}
	return identity.FreeDailyLimit
}

func (q fakeQuota) Remaining(id identity.Identity) int {
	return max(q.Limit(id)-id.Quota.CountFor(testToday), 0)
}

type fakeHealth struct {
	report healthuc.Report
}

func (f fakeHealth) Check(context.Context) healthuc.Report { return f.report }

type harness struct {
	search     *fakeSearch
	agencies   *fakeAgencies
	identities *fakeIdentities
	history    *fakeHistory
	health     *fakeHealth
	tokens     *auth.Service
	server     *Server
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	tokens, err := auth.NewService(testSecret, "protoguide", "")
	require.NoError(t, err)

	h := &harness{
		search:   &fakeSearch{},
		agencies: &fakeAgencies{byID: map[int64]agency.Agency{}},
		identities: &fakeIdentities{bySubject: map[string]identity.Identity{
			"open-free": {ID: 1, Subject: "open-free", Role: "user", Tier: identity.TierFree,
				Quota: identity.QuotaState{CountToday: 2, LastDay: testToday}},
			"open-pro": {ID: 2, Subject: "open-pro", Role: "user", Tier: identity.TierPro},
		}},
		history: &fakeHistory{},
		health: &fakeHealth{report: healthuc.Report{
			Status: healthuc.Healthy,
			Checks: map[string]healthuc.CheckResult{"postgres": healthuc.CheckOK},
		}},
		tokens: tokens,
	}
	h.server = NewServer(Services{
		Search:     h.search,
		Agencies:   h.agencies,
		Identities: h.identities,
		History:    h.history,
		Quota:      fakeQuota{},
		Health:     h.health,
		Tokens:     tokens,
	}, nil)
	return h
}

func (h *harness) token(t *testing.T, subject string) string {
	t.Helper()
	tok, err := h.tokens.Issue(subject, "", time.Hour)
	require.NoError(t, err)
	return tok
}
