// Package adhoc compiles dashboard ad-hoc filters into a ClickHouse
// additional_table_filters settings clause.
package adhoc

// Filter is a single ad-hoc filter term supplied by the dashboard host.
// Operator and Value are pointers so that an absent field can be told apart
// from an empty one.
type Filter struct {
	Key       string  `json:"key" yaml:"key"`
	Operator  *string `json:"operator,omitempty" yaml:"operator,omitempty"`
	Value     *string `json:"value,omitempty" yaml:"value,omitempty"`
	Condition string  `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// Config holds the ad-hoc filter settings of a datasource
type Config struct {
	// HideTableNameInAdhocFilters keeps dotted keys as-is instead of
	// stripping the leading table alias.
	HideTableNameInAdhocFilters bool `json:"hideTableNameInAdhocFilters" yaml:"hide_table_name_in_adhoc_filters"`
}

// NewFilter creates a filter with all three fields present
func NewFilter(key, operator, value string) Filter {
	return Filter{Key: key, Operator: &operator, Value: &value}
}

// WithCondition returns a copy of f joined to the next term by cond
func (f Filter) WithCondition(cond string) Filter {
	f.Condition = cond
	return f
}

// IsValid reports whether the filter has a key, an operator and a value.
// An empty value is allowed.
func IsValid(f Filter) bool {
	return f.Key != "" && f.Operator != nil && f.Value != nil
}

func (f Filter) operator() string {
	if f.Operator == nil {
		return ""
	}
	return *f.Operator
}

func (f Filter) value() string {
	if f.Value == nil {
		return ""
	}
	return *f.Value
}

func (f Filter) condition() string {
	if f.Condition == "" {
		return "AND"
	}
	return f.Condition
}
