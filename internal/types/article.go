package types

import "strings"

// Engagement holds the interaction counters attached to an article.
// All counters are non-negative; unknown values default to zero.
type Engagement struct {
	Likes        int `json:"likes"`
	Partages     int `json:"partages"`
	Commentaires int `json:"commentaires"`
	Replies      int `json:"replies,omitempty"`
}

// Total returns likes + partages + commentaires.
func (e Engagement) Total() int {
	return e.Likes + e.Partages + e.Commentaires
}

// Comment is a single reader comment attached to an article.
type Comment struct {
	Text          string    `json:"text"`
	Author        string    `json:"author,omitempty"`
	Date          string    `json:"date,omitempty"`
	Sensible      bool      `json:"comment_sensible"`
	ToxiciteScore float64   `json:"toxicite_score"`
	Replies       []Comment `json:"replies,omitempty"`
}

// Article is the canonical cross-source article record. It is immutable
// once formatted; re-scraping the same URL reproduces the same ID.
type Article struct {
	ID            string     `json:"id"`
	Media         string     `json:"media"`
	Titre         string     `json:"titre"`
	Date          string     `json:"date"`
	URL           string     `json:"url"`
	Contenu       string     `json:"contenu"`
	Categorie     string     `json:"categorie"`
	CategorieRaw  string     `json:"categorie_raw,omitempty"`
	Engagement    Engagement `json:"engagement"`
	Sensible      bool       `json:"sensible"`
	ToxiciteScore float64    `json:"toxicite_score"`
	Comments      []Comment  `json:"comments_sensibles,omitempty"`
}

// Media describes one tracked outlet. The derived fields (NbArticles,
// EngagementTotal, ScoreInfluence, Rang, Actif90j) are recomputed in full
// on every stats refresh, never incrementally updated.
type Media struct {
	Nom             string  `json:"nom"`
	BaseURL         string  `json:"base_url"`
	TypeMedia       string  `json:"type_media"`
	NbArticles      int     `json:"nb_articles"`
	EngagementTotal int     `json:"engagement_total"`
	ScoreInfluence  float64 `json:"score_influence"`
	Rang            int     `json:"rang"`
	Actif90j        bool    `json:"actif_90j"`
}

// RawArticle is the shape every site adapter produces from a fetched page.
// It carries provenance only; the formatter turns it into an Article.
type RawArticle struct {
	URL            string
	Media          string
	Title          string
	Author         string
	DateText       string
	FetchedAt      string
	BodyParagraphs []string
	ImageURL       string
	CategoryText   string
	Tags           []string
	Likes          int
	Partages       int
	Comments       []Comment
}

// Body joins the extracted paragraphs into the article content.
func (r *RawArticle) Body() string {
	parts := make([]string, 0, len(r.BodyParagraphs))
	for _, p := range r.BodyParagraphs {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Snapshot is the persisted interchange document between extraction and
// aggregation: the full article collection plus the media roster.
type Snapshot struct {
	Articles []Article `json:"articles"`
	Medias   []Media   `json:"medias"`
}
