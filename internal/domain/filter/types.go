// Package filter defines query filter items applied by list repositories.
package filter

// ComparisonType enumerates the supported comparison operators.
type ComparisonType string

const (
	Equal          ComparisonType = "eq"
	NotEqual       ComparisonType = "neq"
	LessOrEqual    ComparisonType = "lte"
	GreaterOrEqual ComparisonType = "gte"
	Less           ComparisonType = "lt"
	Greater        ComparisonType = "gt"
	InList         ComparisonType = "in"
	NotInList      ComparisonType = "nin"
	Contains       ComparisonType = "contains"  // ILIKE %val%
	NotContains    ComparisonType = "ncontains" // NOT ILIKE %val%

	// Hierarchical filters (group or any of its subgroups)
	InHierarchy    ComparisonType = "in_hierarchy"
	NotInHierarchy ComparisonType = "nin_hierarchy"

	IsNull    ComparisonType = "null"
	IsNotNull ComparisonType = "not_null"
)

// Item represents a single filter condition.
type Item struct {
	Field    string         `json:"field"`    // column name (snake_case)
	Operator ComparisonType `json:"operator"` // comparison kind
	Value    any            `json:"value"`    // scalar, string or ID list
}
