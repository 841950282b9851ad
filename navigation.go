package cursorpagination

import "net/url"

// Navigation holds the tokens of the neighbouring pages. An empty string means
// there is no page in that direction.
type Navigation struct {
	Before string `json:"before,omitempty"`
	After  string `json:"after,omitempty"`
}

// ToMap returns both tokens keyed by request parameter name, empty ones
// included, ready to be merged into link parameters.
func (n Navigation) ToMap() map[string]string {
	return map[string]string{
		RequestParamBefore: n.Before,
		RequestParamAfter:  n.After,
	}
}

// Next returns the parameters of the following page, nil if there is none.
func (n Navigation) Next() map[string]string {
	if n.After == "" {
		return nil
	}

	return map[string]string{RequestParamAfter: n.After}
}

// Previous returns the parameters of the preceding page, nil if there is none.
func (n Navigation) Previous() map[string]string {
	if n.Before == "" {
		return nil
	}

	return map[string]string{RequestParamBefore: n.Before}
}

// Values returns the non-empty tokens as URL query values.
func (n Navigation) Values() url.Values {
	values := url.Values{}
	if n.Before != "" {
		values.Set(RequestParamBefore, n.Before)
	}
	if n.After != "" {
		values.Set(RequestParamAfter, n.After)
	}

	return values
}

// IsEmpty reports whether neither direction has a page.
func (n Navigation) IsEmpty() bool {
	return n.Before == "" && n.After == ""
}
