package main

import (
	"context"
	"flag"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

func main() {
	targetURL := flag.String("url", "http://localhost:8080/api/v1/logs", "Target URL for list queries")
	apiKey := flag.String("api-key", "", "API Key for authentication")
	concurrency := flag.Int("c", 10, "Number of concurrent workers")
	duration := flag.Duration("d", 30*time.Second, "Duration of the load test")
	rps := flag.Int("rps", 50, "Requests per second limit")
	limit := flag.Int("limit", 100, "Rows requested per query")
	priority := flag.Int("priority", 4, "Least severe priority requested")
	flag.Parse()

	log.Printf("Starting load test on %s", *targetURL)
	log.Printf("Concurrency: %d, Duration: %s, RPS: %d", *concurrency, *duration, *rps)

	var wg sync.WaitGroup
	var successCount, throttledCount, errorCount atomic.Int64
	var totalLatency atomic.Int64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	limiter := rate.NewLimiter(rate.Limit(*rps), *concurrency)

	query := url.Values{}
	query.Set("limit", strconv.Itoa(*limit))
	query.Set("priority", strconv.Itoa(*priority))
	endpoint := *targetURL + "?" + query.Encode()

	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client := &http.Client{
				Timeout: 10 * time.Second,
			}

			for {
				if err := limiter.Wait(ctx); err != nil {
					return
				}

				req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
				if err != nil {
					continue
				}
				req.Header.Set("X-Request-ID", uuid.NewString())
				if *apiKey != "" {
					req.Header.Set("X-API-Key", *apiKey)
				}

				start := time.Now()
				resp, err := client.Do(req)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					errorCount.Add(1)
					continue
				}
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()

				switch resp.StatusCode {
				case http.StatusOK:
					successCount.Add(1)
					totalLatency.Add(int64(time.Since(start)))
				case http.StatusTooManyRequests:
					throttledCount.Add(1)
				default:
					errorCount.Add(1)
				}
			}
		}()
	}

	wg.Wait()

	ok := successCount.Load()
	totalRequests := ok + throttledCount.Load() + errorCount.Load()
	actualRPS := float64(totalRequests) / duration.Seconds()

	log.Println("Load test finished.")
	log.Printf("Total Requests: %d", totalRequests)
	log.Printf("Successful (200 OK): %d", ok)
	log.Printf("Throttled (429): %d", throttledCount.Load())
	log.Printf("Errors: %d", errorCount.Load())
	log.Printf("Actual RPS: %.2f", actualRPS)
	if ok > 0 {
		log.Printf("Mean latency: %s", time.Duration(totalLatency.Load()/ok))
	}
}
