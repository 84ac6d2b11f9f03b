package semantic

import "github.com/CampusAI/faqbot-mvp/engine/domain"

// FAQPoint is a single FAQ record with its pre-computed embedding, ready to
// store in Qdrant. The vector must come from the same embedding model used
// at query time; similarity scores are only meaningful under that condition.
type FAQPoint struct {
	ID     string
	Vector []float32
	FAQ    domain.FAQ
}
