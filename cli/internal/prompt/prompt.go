// Package prompt collects ad-hoc filters interactively.
package prompt

import (
	"github.com/AlecAivazis/survey/v2"

	"github.com/satishbabariya/chfilter/adhoc"
)

// Operators offered in the operator select, host syntax included
var Operators = []string{"=", "!=", "=~", "!~", "<", ">", "IN", "LIKE", "NOT LIKE", "ILIKE", "NOT ILIKE"}

type answers struct {
	Key      string `survey:"key"`
	Operator string `survey:"operator"`
	Value    string `survey:"value"`
}

// Query asks for the base query
func Query(opts ...survey.AskOpt) (string, error) {
	var query string
	err := survey.AskOne(&survey.Multiline{
		Message: "Query:",
	}, &query, append(opts, survey.WithValidator(survey.Required))...)
	return query, err
}

// Filters asks for filters until the user declines to add another
func Filters(opts ...survey.AskOpt) ([]adhoc.Filter, error) {
	var filters []adhoc.Filter
	for {
		f, err := askFilter(opts...)
		if err != nil {
			return nil, err
		}

		more := false
		if err := survey.AskOne(&survey.Confirm{Message: "Add another filter?"}, &more, opts...); err != nil {
			return nil, err
		}
		if !more {
			filters = append(filters, f)
			return filters, nil
		}

		condition := "AND"
		if err := survey.AskOne(&survey.Select{
			Message: "Join with:",
			Options: []string{"AND", "OR"},
			Default: "AND",
		}, &condition, opts...); err != nil {
			return nil, err
		}
		filters = append(filters, f.WithCondition(condition))
	}
}

func askFilter(opts ...survey.AskOpt) (adhoc.Filter, error) {
	qs := []*survey.Question{
		{
			Name:     "key",
			Prompt:   &survey.Input{Message: "Key:"},
			Validate: survey.Required,
		},
		{
			Name: "operator",
			Prompt: &survey.Select{
				Message: "Operator:",
				Options: Operators,
				Default: "=",
			},
		},
		{
			Name:   "value",
			Prompt: &survey.Input{Message: "Value:"},
		},
	}

	var a answers
	if err := survey.Ask(qs, &a, opts...); err != nil {
		return adhoc.Filter{}, err
	}
	return adhoc.NewFilter(a.Key, a.Operator, a.Value), nil
}
