package protocol

import "github.com/protoguide/protoguide/internal/domain/search/filter"

const chunkColumns = `p.id, p.agency_id, p.protocol_number, p.protocol_title, p.section, p.content,
       p.source_url, p.effective_date, p.protocol_year, p.last_verified_at, p.created_at`

// $1 is always the escaped contains-pattern.
const (
	matchText = `(p.protocol_title ILIKE $1 ESCAPE '\' OR p.content ILIKE $1 ESCAPE '\' OR p.section ILIKE $1 ESCAPE '\')`

	titleHitOrder = `ORDER BY CASE WHEN p.protocol_title ILIKE $1 ESCAPE '\' THEN 0 ELSE 1 END, p.protocol_title, p.id`
)

// One statement per filter kind. User data only ever travels as bind parameters.
const (
	searchAllSQL = `SELECT ` + chunkColumns + `
FROM protocol_chunks p
WHERE ` + matchText + `
` + titleHitOrder + `
LIMIT $2`

	searchRegionSQL = `SELECT ` + chunkColumns + `
FROM protocol_chunks p
JOIN agencies a ON a.id = p.agency_id
WHERE a.region = $2 AND ` + matchText + `
` + titleHitOrder + `
LIMIT $3`

	searchAgencySQL = `SELECT ` + chunkColumns + `
FROM protocol_chunks p
WHERE p.agency_id = $2 AND ` + matchText + `
` + titleHitOrder + `
LIMIT $3`

	searchRegionAgencySQL = `SELECT ` + chunkColumns + `
FROM protocol_chunks p
JOIN agencies a ON a.id = p.agency_id
WHERE a.region = $2 AND p.agency_id = $3 AND ` + matchText + `
` + titleHitOrder + `
LIMIT $4`
)

const (
	byAgencySQL = `SELECT ` + chunkColumns + `
FROM protocol_chunks p
WHERE p.agency_id = $1
ORDER BY p.protocol_number, p.id`

	statsSQL = `SELECT
    (SELECT COUNT(*) FROM protocol_chunks),
    (SELECT COUNT(*) FROM agencies),
    (SELECT COUNT(DISTINCT region) FROM agencies)`
)

// searchStatement selects the statement and bind arguments for a filter.
func searchStatement(f filter.Filter, pattern string, fetch int) (string, []any) {
	switch f.Kind() {
	case filter.KindRegion:
		return searchRegionSQL, []any{pattern, f.Region(), fetch}
	case filter.KindAgency:
		return searchAgencySQL, []any{pattern, f.AgencyID(), fetch}
	case filter.KindRegionAgency:
		return searchRegionAgencySQL, []any{pattern, f.Region(), f.AgencyID(), fetch}
	default:
		return searchAllSQL, []any{pattern, fetch}
	}
}
