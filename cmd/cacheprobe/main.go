// Command cacheprobe measures cold and warm latency of the cached read
// endpoints of a running API and checks that the expected Redis key appears.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"outletdesk/internal/outlets"
	"outletdesk/internal/shared/config"
	"outletdesk/internal/shared/constants"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

type ProbeResult struct {
	Name      string        `json:"name"`
	Endpoint  string        `json:"endpoint"`
	Cold      time.Duration `json:"cold"`
	Warm      time.Duration `json:"warm"`
	Cached    bool          `json:"cached"`
	Bytes     int           `json:"bytes"`
	Error     string        `json:"error,omitempty"`
	KeyOrGlob string        `json:"key"`
}

type probe struct {
	name     string
	endpoint string
	key      string
	pattern  bool
}

type Prober struct {
	baseURL string
	token   string
	http    *http.Client
	redis   *redis.Client
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	baseURL := flag.String("base", "http://localhost:"+cfg.Port+cfg.GetAPIBasePath(), "API base URL")
	email := flag.String("email", "admin@example.com", "login email")
	password := flag.String("password", "password", "login password")
	out := flag.String("out", "cacheprobe_results.json", "where to write the JSON report")
	flag.Parse()

	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}

	p := &Prober{baseURL: *baseURL, http: &http.Client{Timeout: 30 * time.Second}, redis: rdb}
	if err := p.login(*email, *password); err != nil {
		log.Fatalf("Login failed: %v", err)
	}

	mine, err := p.myOutlets()
	if err != nil {
		log.Fatalf("Listing outlets failed: %v", err)
	}

	var probes []probe
	from := time.Now().Format(time.DateOnly)
	to := time.Now().AddDate(0, 0, 2).Format(time.DateOnly)
	for _, o := range mine {
		probes = append(probes, probe{
			name:     o.BusinessName + " dashboard",
			endpoint: "/outlets/" + o.OutletID + "/dashboard",
			key:      constants.BuildDashboardKey(o.OutletID),
		})
		switch o.Type {
		case outlets.OutletTypeHotel:
			probes = append(probes,
				probe{
					name:     o.BusinessName + " availability",
					endpoint: fmt.Sprintf("/outlets/%s/hotel/rooms/availability?from=%s&to=%s", o.OutletID, from, to),
					key:      constants.AvailabilityPattern(o.OutletID),
					pattern:  true,
				},
				probe{
					name:     o.BusinessName + " categories",
					endpoint: "/outlets/" + o.OutletID + "/hotel/categories",
					key:      constants.BuildHotelCategoriesKey(o.OutletID),
				},
			)
		case outlets.OutletTypeRestaurant:
			probes = append(probes,
				probe{
					name:     o.BusinessName + " menu",
					endpoint: "/outlets/" + o.OutletID + "/restaurant/menu-items",
					key:      constants.BuildMenuItemsKey(o.OutletID),
				},
				probe{
					name:     o.BusinessName + " menu categories",
					endpoint: "/outlets/" + o.OutletID + "/restaurant/categories",
					key:      constants.BuildMenuCategoriesKey(o.OutletID),
				},
			)
		}
	}

	results := make([]ProbeResult, 0, len(probes))
	for _, pr := range probes {
		r := p.run(ctx, pr)
		results = append(results, r)
		status := "MISS"
		if r.Cached {
			status = "CACHED"
		}
		if r.Error != "" {
			status = "ERROR " + r.Error
		}
		fmt.Printf("%-40s cold %-12v warm %-12v %s\n", r.Name, r.Cold, r.Warm, status)
	}

	report(results)

	data, _ := json.MarshalIndent(results, "", "  ")
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatalf("Writing report failed: %v", err)
	}
	fmt.Println("\nDetailed results saved to", *out)
}

// run drops the cached view, then times a cold and a warm request
func (p *Prober) run(ctx context.Context, pr probe) ProbeResult {
	result := ProbeResult{Name: pr.name, Endpoint: pr.endpoint, KeyOrGlob: pr.key}

	if err := p.forget(ctx, pr); err != nil {
		result.Error = err.Error()
		return result
	}

	cold, _, err := p.get(pr.endpoint)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	warm, n, err := p.get(pr.endpoint)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Cold, result.Warm, result.Bytes = cold, warm, n
	result.Cached = p.present(ctx, pr)
	return result
}

func (p *Prober) forget(ctx context.Context, pr probe) error {
	if !pr.pattern {
		return p.redis.Del(ctx, pr.key).Err()
	}
	keys, err := p.redis.Keys(ctx, pr.key).Result()
	if err != nil || len(keys) == 0 {
		return err
	}
	return p.redis.Del(ctx, keys...).Err()
}

func (p *Prober) present(ctx context.Context, pr probe) bool {
	if !pr.pattern {
		n, err := p.redis.Exists(ctx, pr.key).Result()
		return err == nil && n > 0
	}
	keys, err := p.redis.Keys(ctx, pr.key).Result()
	return err == nil && len(keys) > 0
}

func (p *Prober) get(endpoint string) (time.Duration, int, error) {
	req, err := http.NewRequest(http.MethodGet, p.baseURL+endpoint, nil)
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+p.token)

	start := time.Now()
	resp, err := p.http.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		return elapsed, 0, err
	}
	if resp.StatusCode >= 400 {
		return elapsed, len(body), fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return elapsed, len(body), nil
}

func (p *Prober) login(email, password string) error {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := p.http.Post(p.baseURL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return err
	}
	if envelope.Data.Token == "" {
		return fmt.Errorf("no token in response: %s", envelope.Message)
	}
	p.token = envelope.Data.Token
	return nil
}

func (p *Prober) myOutlets() ([]outlets.OutletListEntry, error) {
	req, err := http.NewRequest(http.MethodGet, p.baseURL+"/auth/my-outlets", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	resp, err := p.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var list outlets.MyOutletsResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, err
	}
	return list.Data, nil
}

func report(results []ProbeResult) {
	var cold, warm time.Duration
	ok, cached := 0, 0
	for _, r := range results {
		if r.Error != "" {
			continue
		}
		ok++
		cold += r.Cold
		warm += r.Warm
		if r.Cached {
			cached++
		}
	}

	fmt.Println("\nCACHE PROBE REPORT")
	fmt.Printf("Probes: %d, succeeded: %d, cached after first read: %d\n", len(results), ok, cached)
	if ok > 0 && cold > 0 {
		avgCold, avgWarm := cold/time.Duration(ok), warm/time.Duration(ok)
		fmt.Printf("Average cold %v, warm %v (%.1f%% faster)\n", avgCold, avgWarm, float64(avgCold-avgWarm)/float64(avgCold)*100)
	}
}
