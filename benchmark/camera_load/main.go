package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	securityGrpc "liyu1981.xyz/ai-security-service/pkg/grpc"
)

var maxCameras int = 50
var pollsPerCamera int = 20
var httpHostPort string = "127.0.0.1:1080"
var grpcHostPort string = "127.0.0.1:10801"

var grpcClient *securityGrpc.DetectionClient
var token string

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
var rndMu sync.Mutex

func main() {
	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	conn, err := grpc.NewClient(grpcHostPort, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatal("Failed to connect to gRPC server:", err)
	}
	defer conn.Close()
	grpcClient = securityGrpc.NewDetectionClient(conn)

	fmt.Printf("gRPC client created\n")

	token = registerAdmin()
	fmt.Printf("admin registered\n")

	var startTime time.Time
	var usedTime time.Duration

	cameraIDs := make([]string, maxCameras)
	startTime = time.Now()
	wg := sync.WaitGroup{}
	for i := range maxCameras {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cameraIDs[i] = createCamera(i)
			startDetection(cameraIDs[i])
			fmt.Printf("\rcreated and started camera %v", i)
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\rcreated %v cameras with detection: used time=%v seconds, throughput=%v action/second\n",
		maxCameras, usedTime.Seconds(), float64(maxCameras*2)/usedTime.Seconds(),
	)

	var events atomic.Int64
	startTime = time.Now()
	wg = sync.WaitGroup{}
	for i := range maxCameras {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range pollsPerCamera {
				if flipCoin() {
					events.Add(int64(pollLive()))
				} else {
					events.Add(int64(pollRecent(cameraIDs[i])))
				}
			}
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"polled %v cameras: used time=%v seconds, throughput=%v action/second, events seen=%v\n",
		maxCameras, usedTime.Seconds(), float64(maxCameras*pollsPerCamera)/usedTime.Seconds(), events.Load(),
	)

	for _, id := range cameraIDs {
		doRequest(http.MethodPost, "/cameras/"+id+"/detection/stop", nil, nil)
	}
	fmt.Printf("stopped detection on %v cameras\n", maxCameras)
}

func flipCoin() bool {
	rndMu.Lock()
	defer rndMu.Unlock()
	return rnd.Int31n(100000)%2 == 0
}

func doRequest(method, path string, payload any, out any) {
	if status := sendRequest(method, path, payload, out); status >= 300 {
		panic(fmt.Sprintf("%s %s: status %v", method, path, status))
	}
}

// sendRequest decodes into out only on a 2xx response.
func sendRequest(method, path string, payload any, out any) int {
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			panic(err)
		}
	}

	req, err := http.NewRequest(method, fmt.Sprintf("http://%s%s", httpHostPort, path), &body)
	if err != nil {
		panic(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return resp.StatusCode
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			panic(err)
		}
	}
	return resp.StatusCode
}

// the server must list this email in SEC_ADMIN_EMAILS
var adminEmail string = "admin@bench.local"
var adminPassword string = "bench-admin-pass"

func registerAdmin() string {
	var session struct {
		Token   string `json:"token"`
		Account struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		} `json:"account"`
	}
	credentials := map[string]string{"email": adminEmail, "password": adminPassword}
	if sendRequest(http.MethodPost, "/auth/login", credentials, &session) != http.StatusOK {
		credentials["username"] = "bench-admin"
		doRequest(http.MethodPost, "/auth/register", credentials, &session)
	}
	if session.Account.Role != "admin" {
		log.Fatalf("%s is not an admin, start the server with SEC_ADMIN_EMAILS=%s", adminEmail, adminEmail)
	}

	// lift the admin's own request limit
	token = session.Token
	doRequest(http.MethodPost, "/limiter/"+session.Account.ID, map[string]float64{
		"rate":  100000,
		"burst": 100000,
	}, nil)
	return session.Token
}

func createCamera(i int) string {
	var camera struct {
		ID string `json:"id"`
	}
	doRequest(http.MethodPost, "/cameras", map[string]string{
		"name":     fmt.Sprintf("Bench Camera %d %s", i, uuid.NewString()[:8]),
		"location": "Benchmark",
	}, &camera)
	return camera.ID
}

func startDetection(cameraID string) {
	doRequest(http.MethodPost, "/cameras/"+cameraID+"/detection/start", nil, nil)
}

func pollLive() int {
	var live struct {
		Events []json.RawMessage `json:"events"`
	}
	doRequest(http.MethodGet, "/detections/live", nil, &live)
	return len(live.Events)
}

func pollRecent(cameraID string) int {
	resp, err := grpcClient.GetRecentDetections(context.Background(), cameraID)
	if err != nil {
		panic(fmt.Sprintf("err: %v, camera: %v", err, cameraID))
	}
	return len(resp.Detections)
}
