package domain

// ProviderSelection is a user's choice of embedding provider and model.
// Credentials live in service configuration, keyed by the provider name;
// the selection only records which provider and model to vectorize with.
type ProviderSelection struct {
	Provider   string
	Model      string
	Dimensions int
}
