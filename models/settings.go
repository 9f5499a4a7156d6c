package models

// ProviderSettings is a settings document keyed by category and provider,
// e.g. category "payment" and provider "razorpay".
type ProviderSettings struct {
	Category string                 `bson:"category" json:"category"`
	Provider string                 `bson:"provider" json:"provider"`
	Settings map[string]interface{} `bson:"settings" json:"settings"`
	IsActive bool                   `bson:"isActive" json:"isActive"`
}

// Value returns the named setting when it is a string, otherwise "".
func (s *ProviderSettings) Value(key string) string {
	if s == nil || s.Settings == nil {
		return ""
	}
	v, _ := s.Settings[key].(string)
	return v
}
