package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/fasowatch/mediascan/internal/types"
)

// SQLiteStore persists snapshots in a local SQLite database, pure Go
// driver, no cgo. Articles are keyed by id, medias by name; a Save
// replaces both tables wholesale so the database always mirrors the
// latest snapshot.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLiteStore opens the database and runs the idempotent migration.
func OpenSQLiteStore(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, logger: logger.With("component", "sqlite_store")}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Name() string { return "sqlite" }

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS articles (
            id TEXT PRIMARY KEY,
            media TEXT,
            titre TEXT,
            date TEXT,
            url TEXT UNIQUE,
            contenu TEXT,
            categorie TEXT,
            categorie_raw TEXT,
            likes INTEGER,
            partages INTEGER,
            commentaires INTEGER,
            sensible INTEGER,
            toxicite_score REAL,
            comments_json TEXT
        );`,
		`CREATE TABLE IF NOT EXISTS medias (
            nom TEXT PRIMARY KEY,
            base_url TEXT,
            type_media TEXT,
            nb_articles INTEGER,
            engagement_total INTEGER,
            score_influence REAL,
            rang INTEGER,
            actif_90j INTEGER
        );`,
		`CREATE INDEX IF NOT EXISTS idx_articles_media ON articles(media);`,
		`CREATE INDEX IF NOT EXISTS idx_articles_date ON articles(date);`,
	}
	for _, q := range stmts {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("exec migrate: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, snap *types.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &types.StoreError{Backend: s.Name(), Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM articles`); err != nil {
		return &types.StoreError{Backend: s.Name(), Err: err}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM medias`); err != nil {
		return &types.StoreError{Backend: s.Name(), Err: err}
	}

	for i := range snap.Articles {
		a := &snap.Articles[i]
		var comments []byte
		if len(a.Comments) > 0 {
			if comments, err = json.Marshal(a.Comments); err != nil {
				return &types.StoreError{Backend: s.Name(), Err: fmt.Errorf("encode comments %s: %w", a.ID, err)}
			}
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO articles
            (id, media, titre, date, url, contenu, categorie, categorie_raw,
             likes, partages, commentaires, sensible, toxicite_score, comments_json)
            VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?)
            ON CONFLICT(id) DO UPDATE SET
              media=excluded.media, titre=excluded.titre, date=excluded.date,
              url=excluded.url, contenu=excluded.contenu, categorie=excluded.categorie,
              categorie_raw=excluded.categorie_raw, likes=excluded.likes,
              partages=excluded.partages, commentaires=excluded.commentaires,
              sensible=excluded.sensible, toxicite_score=excluded.toxicite_score,
              comments_json=excluded.comments_json`,
			a.ID, a.Media, a.Titre, a.Date, a.URL, a.Contenu, a.Categorie, a.CategorieRaw,
			a.Engagement.Likes, a.Engagement.Partages, a.Engagement.Commentaires,
			boolToInt(a.Sensible), a.ToxiciteScore, string(comments))
		if err != nil {
			return &types.StoreError{Backend: s.Name(), Err: fmt.Errorf("insert article %s: %w", a.ID, err)}
		}
	}

	for _, m := range snap.Medias {
		_, err = tx.ExecContext(ctx, `INSERT INTO medias
            (nom, base_url, type_media, nb_articles, engagement_total, score_influence, rang, actif_90j)
            VALUES(?,?,?,?,?,?,?,?)
            ON CONFLICT(nom) DO UPDATE SET
              base_url=excluded.base_url, type_media=excluded.type_media,
              nb_articles=excluded.nb_articles, engagement_total=excluded.engagement_total,
              score_influence=excluded.score_influence, rang=excluded.rang,
              actif_90j=excluded.actif_90j`,
			m.Nom, m.BaseURL, m.TypeMedia, m.NbArticles, m.EngagementTotal,
			m.ScoreInfluence, m.Rang, boolToInt(m.Actif90j))
		if err != nil {
			return &types.StoreError{Backend: s.Name(), Err: fmt.Errorf("insert media %s: %w", m.Nom, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &types.StoreError{Backend: s.Name(), Err: err}
	}

	s.logger.Info("snapshot stored",
		"articles", len(snap.Articles), "medias", len(snap.Medias))
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*types.Snapshot, error) {
	snap := &types.Snapshot{}

	rows, err := s.db.QueryContext(ctx, `SELECT id, media, titre, date, url, contenu,
        categorie, categorie_raw, likes, partages, commentaires, sensible,
        toxicite_score, COALESCE(comments_json, '') FROM articles ORDER BY date DESC`)
	if err != nil {
		return nil, &types.StoreError{Backend: s.Name(), Err: fmt.Errorf("query articles: %w", err)}
	}
	defer rows.Close()

	for rows.Next() {
		var a types.Article
		var sensible int
		var comments string
		if err := rows.Scan(&a.ID, &a.Media, &a.Titre, &a.Date, &a.URL, &a.Contenu,
			&a.Categorie, &a.CategorieRaw, &a.Engagement.Likes, &a.Engagement.Partages,
			&a.Engagement.Commentaires, &sensible, &a.ToxiciteScore, &comments); err != nil {
			return nil, &types.StoreError{Backend: s.Name(), Err: fmt.Errorf("scan article: %w", err)}
		}
		a.Sensible = sensible != 0
		if comments != "" {
			if err := json.Unmarshal([]byte(comments), &a.Comments); err != nil {
				return nil, &types.StoreError{Backend: s.Name(), Err: fmt.Errorf("decode comments %s: %w", a.ID, err)}
			}
		}
		snap.Articles = append(snap.Articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, &types.StoreError{Backend: s.Name(), Err: fmt.Errorf("iterate articles: %w", err)}
	}

	mrows, err := s.db.QueryContext(ctx, `SELECT nom, base_url, type_media, nb_articles,
        engagement_total, score_influence, rang, actif_90j FROM medias ORDER BY rang, nom`)
	if err != nil {
		return nil, &types.StoreError{Backend: s.Name(), Err: fmt.Errorf("query medias: %w", err)}
	}
	defer mrows.Close()

	for mrows.Next() {
		var m types.Media
		var actif int
		if err := mrows.Scan(&m.Nom, &m.BaseURL, &m.TypeMedia, &m.NbArticles,
			&m.EngagementTotal, &m.ScoreInfluence, &m.Rang, &actif); err != nil {
			return nil, &types.StoreError{Backend: s.Name(), Err: fmt.Errorf("scan media: %w", err)}
		}
		m.Actif90j = actif != 0
		snap.Medias = append(snap.Medias, m)
	}
	if err := mrows.Err(); err != nil {
		return nil, &types.StoreError{Backend: s.Name(), Err: fmt.Errorf("iterate medias: %w", err)}
	}

	if len(snap.Articles) == 0 && len(snap.Medias) == 0 {
		return nil, types.ErrSnapshotNotFound
	}
	return snap, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
