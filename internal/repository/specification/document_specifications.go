package specification

import "gorm.io/gorm"

// MostRecentFirst orders documents newest first. The id tiebreak keeps
// offset pages disjoint when several rows share a created_at.
func MostRecentFirst() []Specification {
	return []Specification{
		OrderBy{Field: "created_at", Desc: true},
		OrderBy{Field: "id", Desc: true},
	}
}

// Page returns the recency-ordered window used by document listing.
func Page(limit, offset int) []Specification {
	return append(MostRecentFirst(), Pagination{Limit: limit, Offset: offset})
}

// ByMetadata matches a top-level string key in the JSONB metadata column.
type ByMetadata struct {
	Key   string
	Value string
}

func (s ByMetadata) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("metadata ->> ? = ?", s.Key, s.Value)
}
