// Package query filters the sqlite plan index with a small expression language.
package query

import (
	"fmt"
	"strconv"
	"strings"
)

// FilterResult represents parsed filter components for SQL generation.
type FilterResult struct {
	WhereClause string
	Args        []interface{}
}

// ParseFilter parses a filter expression into SQL WHERE clause.
// Supported syntax:
//   - Simple: "has_takanon", "status=מאושר"
//   - Comparison: "appendix_count>2", "city_code>=5000"
//   - Contains: "city~תל"
//   - Keyword: "keyword:מגורים"
//   - Boolean: "has_takanon AND city_code=5000", "status=מאושר OR status=בתוקף"
//
// AND binds tighter than OR: "a OR b AND c" is "(a) OR (b AND c)".
// Returns SQL WHERE clause and args for prepared statement.
func ParseFilter(filter string) (*FilterResult, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return &FilterResult{WhereClause: "1=1", Args: []interface{}{}}, nil
	}

	groups := splitByKeyword(filter, "OR")

	var whereParts []string
	args := []interface{}{}
	for _, group := range groups {
		clause, groupArgs, err := parseAndGroup(group)
		if err != nil {
			return nil, err
		}
		if len(groups) > 1 {
			clause = "(" + clause + ")"
		}
		whereParts = append(whereParts, clause)
		args = append(args, groupArgs...)
	}

	return &FilterResult{
		WhereClause: strings.Join(whereParts, " OR "),
		Args:        args,
	}, nil
}

// parseAndGroup parses simple filters joined by AND.
func parseAndGroup(group string) (string, []interface{}, error) {
	var clauses []string
	args := []interface{}{}
	for _, part := range splitByKeyword(group, "AND") {
		clause, partArgs, err := parseSimpleFilter(part)
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, clause)
		args = append(args, partArgs...)
	}
	return strings.Join(clauses, " AND "), args, nil
}

// parseSimpleFilter parses a single filter expression.
func parseSimpleFilter(filter string) (string, []interface{}, error) {
	filter = strings.TrimSpace(filter)

	if strings.HasPrefix(filter, "keyword:") {
		keyword := strings.TrimSpace(strings.TrimPrefix(filter, "keyword:"))
		if keyword == "" {
			return "", nil, fmt.Errorf("empty keyword filter")
		}
		return "EXISTS (SELECT 1 FROM plan_keywords k WHERE k.plan_id = plans.plan_id AND k.keyword = ?)",
			[]interface{}{keyword}, nil
	}

	// Boolean field (just field name)
	if !strings.ContainsAny(filter, "=<>!~") {
		field := normalizeFieldName(filter)
		if !isBoolField(field) {
			return "", nil, fmt.Errorf("invalid boolean field: %s", filter)
		}
		return field + " = 1", []interface{}{}, nil
	}

	for _, op := range []string{">=", "<=", "!=", "=", ">", "<", "~"} {
		if !strings.Contains(filter, op) {
			continue
		}
		parts := strings.SplitN(filter, op, 2)
		field := normalizeFieldName(strings.TrimSpace(parts[0]))
		value := strings.Trim(strings.TrimSpace(parts[1]), "\"'")

		if !isValidField(field) {
			return "", nil, fmt.Errorf("invalid field: %s", parts[0])
		}

		if op == "~" {
			return field + " LIKE ?", []interface{}{"%" + value + "%"}, nil
		}

		var arg interface{} = value
		if num, err := strconv.Atoi(value); err == nil {
			arg = num
		}
		return field + " " + op + " ?", []interface{}{arg}, nil
	}

	return "", nil, fmt.Errorf("invalid filter syntax: %s", filter)
}

// splitByKeyword splits a string by AND/OR keywords (case-insensitive).
func splitByKeyword(s, keyword string) []string {
	upper := strings.ToUpper(s)
	pattern := " " + keyword + " "

	var parts []string
	remaining := s
	upperRemaining := upper

	for {
		idx := strings.Index(upperRemaining, pattern)
		if idx == -1 {
			parts = append(parts, remaining)
			break
		}

		parts = append(parts, remaining[:idx])
		remaining = remaining[idx+len(pattern):]
		upperRemaining = upperRemaining[idx+len(pattern):]
	}

	return parts
}

// validFields maps queryable columns of the plans table to whether they are boolean.
var validFields = map[string]bool{
	"plan_number":    false,
	"city":           false,
	"city_en":        false,
	"city_code":      false,
	"status":         false,
	"plan_type":      false,
	"status_date":    false,
	"relation_type":  false,
	"last_updated":   false,
	"appendix_count": false,
	"drawing_count":  false,
	"has_takanon":    true,
	"has_tasritim":   true,
	"has_nispachim":  true,
	"has_mmg":        true,
	"has_map":        true,
}

func isValidField(field string) bool {
	_, ok := validFields[field]
	return ok
}

func isBoolField(field string) bool {
	return validFields[field]
}

var fieldAliases = map[string]string{
	"type":   "plan_type",
	"mahut":  "plan_type",
	"code":   "city_code",
	"number": "plan_number",
}

// normalizeFieldName maps field aliases to database column names.
func normalizeFieldName(field string) string {
	if col, ok := fieldAliases[field]; ok {
		return col
	}
	return field
}
