// Package main implements a standalone seed script that populates the
// marketplace database with realistic freelance service offers in a mix of
// lifecycle states, complete with escrow accounts and movement history.
//
// Run: go run scripts/seed_services.go
//   (from the repo root, or: cd scripts && go run seed_services.go)
package main

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	totalServices = 2000
	batchSize     = 500
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// deterministicUUID produces a stable UUID-shaped string from a namespace and
// an integer index so that re-runs always produce the same movement IDs.
func deterministicUUID(namespace string, index int) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", namespace, index)))
	hex := fmt.Sprintf("%x", h[:16])
	return fmt.Sprintf("%s-%s-4%s-%x%s-%s",
		hex[0:8],
		hex[8:12],
		hex[13:16],
		0x8|(h[8]&0x3),
		hex[17:20],
		hex[20:32],
	)
}

var categories = []string{
	"Logo Design", "Brand Identity", "Landing Page", "API Integration",
	"Copywriting", "SEO Audit", "Video Editing", "Data Pipeline",
	"Mobile App Prototype", "Technical Writing", "Social Media Kit",
	"Database Tuning", "Illustration Set", "Email Campaign", "UX Review",
}

var adjectives = []string{
	"Professional", "Custom", "Premium", "Minimal", "Modern",
	"Complete", "Detailed", "Rapid", "Polished", "Bespoke",
}

func slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	return s
}

type seedService struct {
	FreelancerID string
	ClientID     *string
	Title        string
	Slug         string
	Description  string
	Price        int64
	Status       string
	Rating       int
	Deadline     time.Time
}

func buildServices(rng *rand.Rand) []seedService {
	now := time.Now().UTC()
	services := make([]seedService, 0, totalServices)

	for i := 0; i < totalServices; i++ {
		adj := adjectives[rng.Intn(len(adjectives))]
		cat := categories[rng.Intn(len(categories))]
		title := fmt.Sprintf("%s %s", adj, cat)

		freelancer := fmt.Sprintf("freelancer-%03d", rng.Intn(200))
		price := int64(1000 + rng.Intn(200)*500)
		deadline := now.AddDate(0, 0, 3+rng.Intn(28))

		svc := seedService{
			FreelancerID: freelancer,
			Title:        title,
			Slug:         slugify(title),
			Description:  fmt.Sprintf("%s delivered by an experienced freelancer. Fixed scope, fixed price.", title),
			Price:        price,
			Status:       "offered",
			Deadline:     deadline,
		}

		// Roughly: 40% offered, 30% hired, 20% settled, 10% refunded.
		roll := rng.Float64()
		switch {
		case roll < 0.30:
			client := fmt.Sprintf("client-%03d", rng.Intn(500))
			svc.Status = "hired"
			svc.ClientID = &client
		case roll < 0.50:
			client := fmt.Sprintf("client-%03d", rng.Intn(500))
			svc.Status = "settled"
			svc.ClientID = &client
			if rng.Float64() < 0.7 {
				svc.Rating = 1 + rng.Intn(5)
			}
		case roll < 0.60:
			client := fmt.Sprintf("client-%03d", rng.Intn(500))
			svc.Status = "refunded"
			svc.ClientID = &client
			svc.Deadline = now.AddDate(0, 0, -(1 + rng.Intn(14)))
		}

		services = append(services, svc)
	}

	return services
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	dbURL := getEnv("DATABASE_URL", fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getEnv("POSTGRES_USER", "gigvault"),
		getEnv("POSTGRES_PASSWORD", "gigvault_secret"),
		getEnv("POSTGRES_HOST", "localhost"),
		getEnv("POSTGRES_PORT", "5432"),
		getEnv("MARKETPLACE_DB_NAME", "marketplace_db"),
	))

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping postgres: %v", err)
	}

	rng := rand.New(rand.NewSource(42))
	services := buildServices(rng)

	log.Printf("Inserting %d services in batches of %d...", len(services), batchSize)

	inserted := 0
	for start := 0; start < len(services); start += batchSize {
		end := start + batchSize
		if end > len(services) {
			end = len(services)
		}
		batch := services[start:end]

		var sb strings.Builder
		sb.WriteString("INSERT INTO services (freelancer_id, client_id, title, slug, description, price, status, rating, deadline) VALUES ")
		args := make([]interface{}, 0, len(batch)*9)
		for i, svc := range batch {
			if i > 0 {
				sb.WriteString(", ")
			}
			base := i * 9
			sb.WriteString(fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9))
			args = append(args, svc.FreelancerID, svc.ClientID, svc.Title, svc.Slug,
				svc.Description, svc.Price, svc.Status, svc.Rating, svc.Deadline)
		}
		if _, err := pool.Exec(ctx, sb.String(), args...); err != nil {
			log.Fatalf("insert services batch %d-%d: %v", start, end, err)
		}
		inserted += len(batch)
		log.Printf("inserted %d/%d services", inserted, len(services))
	}

	// Escrow accounts: hired services hold the full price, terminal services
	// hold zero but keep their movement history.
	log.Printf("Creating escrow accounts and movements...")

	rows, err := pool.Query(ctx, "SELECT id, freelancer_id, client_id, price, status FROM services WHERE status <> 'offered'")
	if err != nil {
		log.Fatalf("query seeded services: %v", err)
	}
	defer rows.Close()

	type escrowRow struct {
		ID           int64
		FreelancerID string
		ClientID     *string
		Price        int64
		Status       string
	}
	var escrows []escrowRow
	for rows.Next() {
		var r escrowRow
		if err := rows.Scan(&r.ID, &r.FreelancerID, &r.ClientID, &r.Price, &r.Status); err != nil {
			log.Fatalf("scan seeded service: %v", err)
		}
		escrows = append(escrows, r)
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("iterate seeded services: %v", err)
	}

	movementIdx := 0
	for _, e := range escrows {
		balance := int64(0)
		if e.Status == "hired" {
			balance = e.Price
		}
		if _, err := pool.Exec(ctx,
			"INSERT INTO escrow_accounts (service_id, balance) VALUES ($1, $2) ON CONFLICT (service_id) DO UPDATE SET balance = EXCLUDED.balance",
			e.ID, balance,
		); err != nil {
			log.Fatalf("insert escrow account for service %d: %v", e.ID, err)
		}

		// Every non-offered service was paid into escrow at some point.
		if _, err := pool.Exec(ctx,
			"INSERT INTO escrow_movements (id, service_id, amount, direction, recipient) VALUES ($1, $2, $3, 'credit', '') ON CONFLICT (id) DO NOTHING",
			deterministicUUID("credit", movementIdx), e.ID, e.Price,
		); err != nil {
			log.Fatalf("insert credit movement for service %d: %v", e.ID, err)
		}
		movementIdx++

		switch e.Status {
		case "settled":
			if _, err := pool.Exec(ctx,
				"INSERT INTO escrow_movements (id, service_id, amount, direction, recipient) VALUES ($1, $2, $3, 'release', $4) ON CONFLICT (id) DO NOTHING",
				deterministicUUID("release", movementIdx), e.ID, e.Price, e.FreelancerID,
			); err != nil {
				log.Fatalf("insert release movement for service %d: %v", e.ID, err)
			}
			movementIdx++
		case "refunded":
			recipient := ""
			if e.ClientID != nil {
				recipient = *e.ClientID
			}
			if _, err := pool.Exec(ctx,
				"INSERT INTO escrow_movements (id, service_id, amount, direction, recipient) VALUES ($1, $2, $3, 'refund', $4) ON CONFLICT (id) DO NOTHING",
				deterministicUUID("refund", movementIdx), e.ID, e.Price, recipient,
			); err != nil {
				log.Fatalf("insert refund movement for service %d: %v", e.ID, err)
			}
			movementIdx++
		}
	}

	log.Printf("Done. Seeded %d services with %d escrow accounts.", len(services), len(escrows))
}
