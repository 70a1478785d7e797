package constants

import "github.com/bbbmagic-coder/rabat-property-tracker/internal/core/domain"

// Adapter keys referenced by source descriptors. Each key must match the
// Name() of a registered source adapter.
const (
	AdapterAISearch  = "aisearch"
	AdapterRSS       = "rss"
	AdapterSearchAPI = "searchapi"
)

// GetSourceDescriptors returns the static query/feed list one ingestion run
// iterates, in order. The list is configuration, not user input: runs carry
// no parameters.
func GetSourceDescriptors() []domain.SourceDescriptor {
	return []domain.SourceDescriptor{
		{
			Adapter: AdapterAISearch,
			Query:   "Mubawab nouveaux projets immobiliers Rabat 2026",
			Label:   "Mubawab nouveaux projets immobiliers Rabat 2026",
		},
		{
			Adapter: AdapterAISearch,
			Query:   "Avito projets neufs Rabat Hay Riad",
			Label:   "Avito projets neufs Rabat Hay Riad",
		},
		{
			Adapter: AdapterAISearch,
			Query:   "nouveaux programmes immobiliers Rabat Souissi",
			Label:   "nouveaux programmes immobiliers Rabat Souissi",
		},
		{
			Adapter: AdapterAISearch,
			Query:   "Prestigia Rabat nouveaux projets",
			Label:   "Prestigia Rabat nouveaux projets",
		},
		{
			Adapter: AdapterAISearch,
			Query:   "Alliances développement Rabat",
			Label:   "Alliances développement Rabat",
		},
		{
			Adapter: AdapterRSS,
			Query:   "https://www.mubawab.ma/fr/rss/projets-neufs-rabat",
			Label:   "Mubawab RSS projets neufs Rabat",
		},
		{
			Adapter: AdapterRSS,
			Query:   "https://www.medias24.com/categorie/immobilier/feed/",
			Label:   "Medias24 immobilier RSS",
		},
		{
			Adapter: AdapterSearchAPI,
			Query:   "nouveau projet immobilier Rabat promoteur",
			Label:   "Search API: nouveau projet immobilier Rabat",
		},
		{
			Adapter: AdapterSearchAPI,
			Query:   "résidence neuve Rabat VEFA prix",
			Label:   "Search API: résidence neuve Rabat VEFA",
		},
	}
}
