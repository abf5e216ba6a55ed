package scraper

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/fasowatch/mediascan/internal/config"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testSource(key string) config.Source {
	for _, s := range config.DefaultSources() {
		if s.Key == key {
			return s
		}
	}
	return config.Source{Key: key, Name: key}
}

var fetchedAt = time.Date(2025, 11, 16, 12, 0, 0, 0, time.UTC)

func TestRegistryDispatch(t *testing.T) {
	for _, src := range config.DefaultSources() {
		if src.TypeMedia != "web" {
			continue
		}
		sc, err := New(src, testLogger)
		if err != nil {
			t.Errorf("New(%s): %v", src.Key, err)
			continue
		}
		if sc.Key() != src.Key {
			t.Errorf("Key() = %s, want %s", sc.Key(), src.Key)
		}
	}
}

func TestRegistryUnknownSource(t *testing.T) {
	_, err := New(config.Source{Key: "inconnu"}, testLogger)
	if err == nil {
		t.Fatal("want error for unknown source without feed")
	}
}

func TestRegistryFeedFallback(t *testing.T) {
	sc, err := New(config.Source{Key: "inconnu", Name: "Inconnu", FeedURL: "https://inconnu.bf/feed"}, testLogger)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pages := sc.ListingPages(5)
	if len(pages) != 1 || pages[0] != "https://inconnu.bf/feed" {
		t.Errorf("ListingPages = %v, want the feed URL", pages)
	}
}

const lefasoArticleHTML = `<html><body>
<div class="container">
<div class="col-xs-12 col-sm-12 col-md-8 col-lg-8 col-md-8">
  <h1 class="entry-title">Burkina : Le gouvernement annonce un plan agricole</h1>
  <div class="article-meta">publié le lundi 15 novembre 2025</div>
  <p>Premier paragraphe du contenu.</p>
  <p>Deuxième paragraphe.</p>
</div>
<ul class="forum">
  <li>
    <div class="forum-message"><font>15 novembre 2025</font>
      <div class="ugccmt-commenttext">Très bonne initiative.</div>
    </div>
    <ul>
      <li>
        <div class="forum-message"><font>15 novembre 2025</font>
          <div class="ugccmt-commenttext">Tout à fait d'accord.</div>
        </div>
      </li>
    </ul>
  </li>
  <li>
    <div class="forum-message"><font>16 novembre 2025</font>
      <div class="ugccmt-commenttext">On attend de voir.</div>
    </div>
  </li>
</ul>
</div>
</body></html>`

func TestLefasoExtract(t *testing.T) {
	sc, _ := New(testSource("lefaso"), testLogger)

	raw, err := sc.Extract([]byte(lefasoArticleHTML), "https://lefaso.net/spip.php?article140000", fetchedAt)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if raw.Title != "Burkina : Le gouvernement annonce un plan agricole" {
		t.Errorf("title = %q", raw.Title)
	}
	if raw.DateText != "publié le lundi 15 novembre 2025" {
		t.Errorf("date = %q", raw.DateText)
	}
	if len(raw.BodyParagraphs) != 2 {
		t.Fatalf("paragraphs = %d, want 2", len(raw.BodyParagraphs))
	}
	if len(raw.Comments) != 2 {
		t.Fatalf("comments = %d, want 2", len(raw.Comments))
	}
	if raw.Comments[0].Text != "Très bonne initiative." {
		t.Errorf("comment[0] = %q", raw.Comments[0].Text)
	}
	if len(raw.Comments[0].Replies) != 1 {
		t.Errorf("replies = %d, want 1", len(raw.Comments[0].Replies))
	}
	if raw.FetchedAt != "2025-11-16 12:00:00" {
		t.Errorf("fetched_at = %q", raw.FetchedAt)
	}
}

const lefasoListingHTML = `<html><body>
<div class="col-xs-12 col-sm-12 col-md-8 col-lg-8 col-md-8">
  <a href="spip.php?article140001">Article un</a>
  <a href="spip.php?article140002">Article deux</a>
  <a href="spip.php?article140001">Doublon</a>
  <a href="spip.php?rubrique2">Rubrique, pas un article</a>
</div>
</body></html>`

func TestLefasoArticleLinks(t *testing.T) {
	sc, _ := New(testSource("lefaso"), testLogger)

	links, err := sc.ArticleLinks([]byte(lefasoListingHTML), "https://lefaso.net/spip.php?rubrique2")
	if err != nil {
		t.Fatalf("ArticleLinks: %v", err)
	}
	want := []string{
		"https://lefaso.net/spip.php?article140001",
		"https://lefaso.net/spip.php?article140002",
	}
	if len(links) != len(want) {
		t.Fatalf("links = %v, want %v", links, want)
	}
	for i := range want {
		if links[i] != want[i] {
			t.Errorf("links[%d] = %s, want %s", i, links[i], want[i])
		}
	}
}

func TestLefasoListingPagination(t *testing.T) {
	sc, _ := New(testSource("lefaso"), testLogger)

	pages := sc.ListingPages(3)
	// 7 rubrics times 3 pages each.
	if len(pages) != 21 {
		t.Fatalf("pages = %d, want 21", len(pages))
	}
	// Offset pages advance by 20 articles.
	found := false
	for _, p := range pages {
		if p == "https://lefaso.net/spip.php?rubrique2&debut_articles=20" {
			found = true
		}
	}
	if !found {
		t.Error("missing offset page for rubrique2 page 2")
	}
}

const burkina24HTML = `<html><head>
<meta property="og:image" content="https://burkina24.com/img/une.jpg"/>
</head><body>
<h1 class="post-title entry-title">Transition : nouvelles mesures annoncées</h1>
<span class="meta-author"><a class="author-name tie-icon" title="La Rédaction">La Rédaction</a></span>
<span class="date meta-item tie-icon">il y a 3 heures</span>
<span class="post-cat-wrap"><a>Politique</a></span>
<div class="entry-content entry-content-single">
  <p>Le contenu principal.</p>
  <p>Suite du contenu.</p>
</div>
<div class="post-tags"><a>transition</a><a>gouvernement</a></div>
</body></html>`

func TestBurkina24Extract(t *testing.T) {
	sc, _ := New(testSource("burkina_24"), testLogger)

	raw, err := sc.Extract([]byte(burkina24HTML), "https://burkina24.com/2025/11/16/transition/", fetchedAt)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if raw.Title != "Transition : nouvelles mesures annoncées" {
		t.Errorf("title = %q", raw.Title)
	}
	if raw.DateText != "il y a 3 heures" {
		t.Errorf("date = %q", raw.DateText)
	}
	if raw.CategoryText != "Politique" {
		t.Errorf("category = %q", raw.CategoryText)
	}
	if len(raw.BodyParagraphs) != 2 {
		t.Errorf("paragraphs = %d, want 2", len(raw.BodyParagraphs))
	}
	if len(raw.Tags) != 2 {
		t.Errorf("tags = %v", raw.Tags)
	}
	if raw.ImageURL != "https://burkina24.com/img/une.jpg" {
		t.Errorf("image = %q", raw.ImageURL)
	}
}

const sidwayaHTML = `<html><body>
<h1 class="entry-title">Coopération : signature d'un accord</h1>
<div class="td-post-author-name"><a>S. OUEDRAOGO</a></div>
<time class="entry-date updated td-module-date" datetime="2025-10-16T00:34:26+00:00">16 octobre 2025</time>
<a class="td-post-category">Economie</a>
<div class="td-post-content">
  <p>Paragraphe un.</p>
  <p>Paragraphe deux.</p>
</div>
</body></html>`

func TestSidwayaExtract(t *testing.T) {
	sc, _ := New(testSource("sidwaya"), testLogger)

	raw, err := sc.Extract([]byte(sidwayaHTML), "https://www.sidwaya.info/cooperation-accord/", fetchedAt)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if raw.Title != "Coopération : signature d'un accord" {
		t.Errorf("title = %q", raw.Title)
	}
	if raw.Author != "S. OUEDRAOGO" {
		t.Errorf("author = %q", raw.Author)
	}
	if raw.DateText != "2025-10-16T00:34:26+00:00" {
		t.Errorf("date = %q", raw.DateText)
	}
	if raw.CategoryText != "Economie" {
		t.Errorf("category = %q", raw.CategoryText)
	}
	if len(raw.BodyParagraphs) != 2 {
		t.Errorf("paragraphs = %d, want 2", len(raw.BodyParagraphs))
	}
}

const sidwayaListingHTML = `<html><body>
<h3 class="entry-title td-module-title"><a href="https://www.sidwaya.info/a1/">Un</a></h3>
<h3 class="entry-title td-module-title"><a href="https://www.sidwaya.info/a2/">Deux</a></h3>
</body></html>`

func TestSidwayaArticleLinks(t *testing.T) {
	sc, _ := New(testSource("sidwaya"), testLogger)

	links, err := sc.ArticleLinks([]byte(sidwayaListingHTML), "https://www.sidwaya.info/")
	if err != nil {
		t.Fatalf("ArticleLinks: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("links = %v, want 2", links)
	}
}

const fasopresseHTML = `<html><body>
<table class="contentpaneopen">
<tr><td class="contentheading"><a class="contentpagetitle">Agriculture : bilan de la campagne</a></td></tr>
<tr><td class="createdate">Vendredi, 29 Juin 2018 09:55</td></tr>
<tr><td valign="top">
  <p>Le bilan de la campagne agricole est satisfaisant.</p>
  <p>Cette adresse email est protégée contre les robots spammeurs.</p>
  <p>Les producteurs saluent les mesures prises.</p>
  <p>Djakaridia SIRIBIE</p>
</td></tr>
</table>
</body></html>`

func TestFasoPresseExtract(t *testing.T) {
	sc, _ := New(testSource("fasopresse"), testLogger)

	raw, err := sc.Extract([]byte(fasopresseHTML), "https://fasopresse.net/politique/6151-agriculture", fetchedAt)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if raw.Title != "Agriculture : bilan de la campagne" {
		t.Errorf("title = %q", raw.Title)
	}
	if len(raw.BodyParagraphs) != 2 {
		t.Fatalf("paragraphs = %v, want the obfuscation line and signature dropped", raw.BodyParagraphs)
	}
	if raw.Author != "Djakaridia SIRIBIE" {
		t.Errorf("author = %q, want trailing signature", raw.Author)
	}
	if raw.DateText != "Vendredi, 29 Juin 2018 09:55" {
		t.Errorf("date = %q", raw.DateText)
	}
}

const lobservateurHTML = `<html><body>
<div class="itemHeader">
  <h2 class="itemTitle">Editorial : la paix avant tout</h2>
  <ul>
    <li class="itemAuthor"> Écrit par <a rel="author">L'équipe</a></li>
    <li class="itemDate"><time datetime="2025-11-10T08:00:00+00:00">10 novembre 2025</time></li>
    <li class="itemCategory"><a>Société</a></li>
  </ul>
</div>
<div class="itemFullText">
  <p>Texte complet de l'éditorial.</p>
</div>
</body></html>`

func TestLObservateurExtract(t *testing.T) {
	sc, _ := New(testSource("observateur_paalga"), testLogger)

	raw, err := sc.Extract([]byte(lobservateurHTML), "https://www.lobservateur.bf/editorial-paix", fetchedAt)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if raw.Title != "Editorial : la paix avant tout" {
		t.Errorf("title = %q", raw.Title)
	}
	if raw.Author != "L'équipe" {
		t.Errorf("author = %q", raw.Author)
	}
	if raw.DateText != "2025-11-10T08:00:00+00:00" {
		t.Errorf("date = %q", raw.DateText)
	}
	if raw.CategoryText != "Société" {
		t.Errorf("category = %q", raw.CategoryText)
	}
}

const rssFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<title>Inconnu</title>
<item>
  <title>Premier sujet du jour</title>
  <link>https://inconnu.bf/premier-sujet</link>
  <pubDate>Sun, 16 Nov 2025 09:30:00 GMT</pubDate>
  <category>Politique</category>
  <description>Résumé du premier sujet.</description>
</item>
</channel></rss>`

func TestFeedAdapter(t *testing.T) {
	sc, _ := New(config.Source{Key: "inconnu", Name: "Inconnu", FeedURL: "https://inconnu.bf/feed"}, testLogger)

	links, err := sc.ArticleLinks([]byte(rssFeedXML), "https://inconnu.bf/feed")
	if err != nil {
		t.Fatalf("ArticleLinks: %v", err)
	}
	if len(links) != 1 || links[0] != "https://inconnu.bf/premier-sujet" {
		t.Fatalf("links = %v", links)
	}

	raw, err := sc.Extract([]byte("<html><body></body></html>"), links[0], fetchedAt)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if raw.Title != "Premier sujet du jour" {
		t.Errorf("title = %q", raw.Title)
	}
	if raw.DateText != "2025-11-16 09:30:00" {
		t.Errorf("date = %q", raw.DateText)
	}
	if raw.CategoryText != "Politique" {
		t.Errorf("category = %q", raw.CategoryText)
	}
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		base, href, want string
	}{
		{"https://lefaso.net/spip.php?rubrique2", "spip.php?article1", "https://lefaso.net/spip.php?article1"},
		{"https://a.bf/x/", "/y", "https://a.bf/y"},
		{"https://a.bf", "https://b.bf/z", "https://b.bf/z"},
		{"https://a.bf", "#comments", ""},
		{"https://a.bf", "javascript:void(0)", ""},
		{"https://a.bf", "mailto:x@a.bf", ""},
	}
	for _, tt := range tests {
		if got := absoluteURL(tt.base, tt.href); got != tt.want {
			t.Errorf("absoluteURL(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
		}
	}
}

func TestDedupe(t *testing.T) {
	got := dedupe([]string{"a", "b", "a", "", "c", "b"})
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("dedupe = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("dedupe[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
