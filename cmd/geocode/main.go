package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"collection-route-service/internal/adapters/cache"
	"collection-route-service/internal/adapters/geocode"
	"collection-route-service/internal/adapters/repositories"
	"collection-route-service/internal/config"
)

// Backfills coordinates for an id,address CSV. Cache hits are free;
// live lookups pause between requests per the Nominatim usage policy.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	inPath := config.Get("GEOCODE_IN", "data/addresses.csv")
	outPath := config.Get("GEOCODE_OUT", "data/geocoded.csv")
	sqlitePath := config.Get("SQLITE_PATH", "collection.db")

	db, err := sql.Open("sqlite", sqlitePath)
	if err != nil {
		log.Fatalf("open sqlite database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := repositories.InitSchema(ctx, db); err != nil {
		log.Fatalf("init schema: %v", err)
	}

	in, err := os.Open(inPath)
	if err != nil {
		log.Fatalf("open input: %v", err)
	}
	defer in.Close()

	records, err := csv.NewReader(in).ReadAll()
	if err != nil {
		log.Fatalf("read input: %v", err)
	}
	if len(records) < 2 {
		log.Fatalf("%s: no address rows", inPath)
	}

	geocodeCache := cache.NewSqliteGeocodeCache(db)
	geocoder := geocode.NewNominatimGeocoder(config.Get("NOMINATIM_URL", ""))

	out := [][]string{{"id", "address", "lat", "lon"}}
	hits, lookups := 0, 0
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		id, address := record[0], record[1]

		coords, ok, err := geocodeCache.Get(ctx, address)
		if err != nil {
			log.Fatalf("geocode cache: %v", err)
		}
		if ok {
			hits++
		} else {
			if lookups > 0 {
				time.Sleep(time.Second)
			}
			coords, err = geocoder.Geocode(ctx, address)
			if err != nil {
				log.Fatalf("geocode %q: %v", address, err)
			}
			lookups++
			if err := geocodeCache.Put(ctx, address, coords); err != nil {
				log.Printf("geocode cache write failed: %v", err)
			}
		}

		out = append(out, []string{
			id,
			address,
			strconv.FormatFloat(coords.Lat, 'f', -1, 64),
			strconv.FormatFloat(coords.Lon, 'f', -1, 64),
		})
	}

	f, err := os.Create(outPath)
	if err != nil {
		log.Fatalf("create output: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(out); err != nil {
		log.Fatalf("write output: %v", err)
	}
	log.Printf("geocoded rows=%d cache_hits=%d lookups=%d out=%s", len(out)-1, hits, lookups, outPath)
}
