package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"community_hub/pkg/loadtest"
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:8080", "Base URL for testing")
		testType    = flag.String("type", "read", "Test type: read, login, stress")
		concurrency = flag.Int("concurrency", 50, "Concurrent workers")
		duration    = flag.Duration("duration", 30*time.Second, "Duration per run")
		email       = flag.String("email", "admin@example.com", "Login email for the login test")
		password    = flag.String("password", "changeme", "Login password for the login test")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := loadtest.NewAPITest(*baseURL)

	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err := api.HealthCheck()(healthCtx)
	cancel()
	if err != nil {
		log.Fatalf("❌ 服务器不可用: %s (%v)", *baseURL, err)
	}
	fmt.Printf("✅ 服务器可用: %s\n", *baseURL)

	switch *testType {
	case "read":
		pt := loadtest.NewPerformanceTest("read_mix", *concurrency, *duration)
		for _, req := range api.ReadMix() {
			pt.AddRequest(req)
		}
		printResults(pt.Run(ctx))
	case "login":
		pt := loadtest.NewPerformanceTest("login", *concurrency, *duration)
		pt.AddRequest(api.Login(*email, *password))
		printResults(pt.Run(ctx))
	case "stress":
		st := loadtest.NewStressTest(*concurrency, max(*concurrency/10, 1), *duration)
		for _, req := range api.ReadMix() {
			st.AddRequest(req)
		}
		printResults(st.Run(ctx)...)
	default:
		fmt.Printf("❌ 未知的测试类型: %s\n", *testType)
		flag.Usage()
		os.Exit(1)
	}
}

func printResults(results ...*loadtest.TestResult) {
	fmt.Println("================================")
	for _, r := range results {
		fmt.Println(r.Summary())
	}
	fmt.Println("================================")
}
