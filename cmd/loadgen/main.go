package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/atharv3903/metronav/internal/cache"
	"github.com/atharv3903/metronav/internal/model"
)

type summary struct {
	Requests  int64
	Errors    int64
	NotFound  int64
	CacheHits int64
	Latencies []time.Duration
}

func (s *summary) add(o summary) {
	s.Requests += o.Requests
	s.Errors += o.Errors
	s.NotFound += o.NotFound
	s.CacheHits += o.CacheHits
	s.Latencies = append(s.Latencies, o.Latencies...)
}

func main() {
	server := pflag.String("server", "http://127.0.0.1:8080", "metronav base URL")
	clients := pflag.Int("clients", 8, "concurrent closed-loop clients")
	duration := pflag.Duration("duration", 30*time.Second, "test length")
	clearCache := pflag.Bool("clear-cache", true, "clear the route cache before starting")
	pflag.Parse()

	transport := &http.Transport{
		MaxIdleConns:        500,
		MaxIdleConnsPerHost: 500,
		IdleConnTimeout:     90 * time.Second,
	}
	client := &http.Client{Transport: transport, Timeout: 5 * time.Second}

	stations, err := fetchStations(client, *server)
	if err != nil {
		log.Fatal(err)
	}
	if len(stations) == 0 {
		log.Fatal("server has no stations")
	}
	log.Printf("Loaded %d stations", len(stations))

	if *clearCache {
		resp, err := client.Post(*server+"/debug/clear_cache", "text/plain", nil)
		if err != nil {
			log.Fatalf("failed to clear cache: %v", err)
		}
		resp.Body.Close()
		log.Println("Cache cleared")
	}

	log.Printf("Running %d clients for %v…", *clients, *duration)
	total := run(client, *server, stations, *clients, *duration)

	stats, err := fetchCacheStats(client, *server)
	if err != nil {
		log.Printf("cache stats unavailable: %v", err)
	}
	report(os.Stdout, total, stats, *duration)
}

// run drives the server with closed-loop clients: each sends its next query
// as soon as the previous one returns.
func run(client *http.Client, server string, stations []string, clients int, dur time.Duration) summary {
	ctx, cancel := context.WithTimeout(context.Background(), dur)
	defer cancel()

	var (
		mu    sync.Mutex
		total summary
	)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < clients; i++ {
		seed := time.Now().UnixNano() + int64(i)
		g.Go(func() error {
			rnd := rand.New(rand.NewSource(seed))
			var local summary
			for ctx.Err() == nil {
				from := stations[rnd.Intn(len(stations))]
				to := stations[rnd.Intn(len(stations))]
				query(ctx, client, server, from, to, &local)
			}
			mu.Lock()
			total.add(local)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return total
}

func query(ctx context.Context, client *http.Client, server, from, to string, s *summary) {
	u := server + "/route?" + url.Values{"from": {from}, "to": {to}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		s.Errors++
		return
	}

	start := time.Now()
	resp, err := client.Do(req)
	lat := time.Since(start)
	if ctx.Err() != nil {
		// cut off by the deadline, not counted
		if resp != nil {
			resp.Body.Close()
		}
		return
	}

	s.Requests++
	s.Latencies = append(s.Latencies, lat)
	if err != nil {
		s.Errors++
		return
	}
	defer resp.Body.Close()

	var rr model.RouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		s.Errors++
		return
	}
	if resp.StatusCode == http.StatusNotFound {
		s.NotFound++
	}
	if rr.CacheHit {
		s.CacheHits++
	}
}

func fetchStations(client *http.Client, server string) ([]string, error) {
	resp, err := client.Get(server + "/stations")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stations: %s", resp.Status)
	}
	var sr model.StationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, err
	}
	return sr.Stations, nil
}

func fetchCacheStats(client *http.Client, server string) (cache.Stats, error) {
	var st cache.Stats
	resp, err := client.Get(server + "/debug/cache_stats")
	if err != nil {
		return st, err
	}
	defer resp.Body.Close()
	err = json.NewDecoder(resp.Body).Decode(&st)
	return st, err
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	i := int(float64(len(sorted)-1) * p)
	return sorted[i]
}

func report(w io.Writer, s summary, st cache.Stats, dur time.Duration) {
	fmt.Fprintln(w, "\n========== LOADGEN SUMMARY ==========")
	fmt.Fprintf(w, "Total Requests: %d\n", s.Requests)
	fmt.Fprintf(w, "Errors: %d\n", s.Errors)
	fmt.Fprintf(w, "Not found: %d\n", s.NotFound)
	if s.Requests > 0 {
		fmt.Fprintf(w, "RouteCache Hit Rate: %.1f%%\n", float64(s.CacheHits)/float64(s.Requests)*100)
		fmt.Fprintf(w, "Throughput: %.2f rps\n", float64(s.Requests)/dur.Seconds())
	}
	if st.Gets > 0 {
		fmt.Fprintf(w, "Server cache: gets=%d hits=%d puts=%d evictions=%d len=%d/%d\n",
			st.Gets, st.Hits, st.Puts, st.Evictions, st.Len, st.Capacity)
	}

	if len(s.Latencies) > 0 {
		lat := slices.Clone(s.Latencies)
		slices.Sort(lat)
		var sum time.Duration
		for _, l := range lat {
			sum += l
		}
		fmt.Fprintf(w, "Avg Latency: %v\n", sum/time.Duration(len(lat)))
		fmt.Fprintf(w, "Fastest: %v\n", lat[0])
		fmt.Fprintf(w, "P50: %v\n", percentile(lat, 0.50))
		fmt.Fprintf(w, "P99: %v\n", percentile(lat, 0.99))
		fmt.Fprintf(w, "Slowest: %v\n", lat[len(lat)-1])
	}
	fmt.Fprintln(w, "=====================================")
}
