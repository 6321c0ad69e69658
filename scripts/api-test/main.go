package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

func main() {
	baseURL := flag.String("base", "http://localhost:7789", "server base URL")
	wait := flag.Duration("wait", 2*time.Second, "time to wait for the server to start")
	flag.Parse()

	// 等待服务器启动
	time.Sleep(*wait)

	fmt.Println("=== Habit Tracker API 测试 ===")
	failed := 0
	check := func(ok bool) {
		if !ok {
			failed++
		}
	}

	fmt.Println("\n1. 测试健康检查端点 /health")
	check(TestEndpoint(*baseURL, "GET", "/health", nil, http.StatusOK))

	fmt.Println("\n2. 测试获取习惯列表 /api/v1/habits")
	check(TestEndpoint(*baseURL, "GET", "/api/v1/habits", nil, http.StatusOK))

	fmt.Println("\n3. 测试创建新的习惯")
	habitData := map[string]string{
		"name":     "晨跑",
		"category": "健身",
	}
	jsonData, _ := json.Marshal(habitData)
	check(TestEndpoint(*baseURL, "POST", "/api/v1/habits", jsonData, http.StatusCreated))

	fmt.Println("\n4. 测试今天打卡")
	check(TestEndpoint(*baseURL, "POST", "/api/v1/habits/0/toggle", nil, http.StatusOK))

	fmt.Println("\n5. 测试今日统计和月历")
	check(TestEndpoint(*baseURL, "GET", "/api/v1/habits/stats", nil, http.StatusOK))
	check(TestEndpoint(*baseURL, "GET", "/api/v1/habits/calendar", nil, http.StatusOK))

	fmt.Println("\n6. 测试无效日期")
	check(TestEndpoint(*baseURL, "GET", "/api/v1/habits/days/2026-13-01", nil, http.StatusBadRequest))

	fmt.Println("\n7. 撤销打卡并删除测试数据（不调用 /save，不会写入存储）")
	check(TestEndpoint(*baseURL, "POST", "/api/v1/habits/0/toggle", nil, http.StatusOK))
	check(TestEndpoint(*baseURL, "DELETE", "/api/v1/habits/0", nil, http.StatusOK))

	fmt.Println("\n=== 测试完成 ===")
	if failed > 0 {
		fmt.Printf("❌ %d 个请求失败\n", failed)
		os.Exit(1)
	}
}

// TestEndpoint 发送请求并检查状态码
func TestEndpoint(baseURL, method, endpoint string, data []byte, want int) bool {
	var req *http.Request
	var err error

	url := baseURL + endpoint

	if data != nil {
		req, err = http.NewRequest(method, url, bytes.NewBuffer(data))
		if err == nil {
			req.Header.Set("Content-Type", "application/json")
		}
	} else {
		req, err = http.NewRequest(method, url, nil)
	}

	if err != nil {
		fmt.Printf("❌ 创建请求失败: %v\n", err)
		return false
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("❌ 请求失败: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != want {
		fmt.Printf("❌ %s %s - Status: %d, want %d\n", method, endpoint, resp.StatusCode, want)
		fmt.Printf("Response: %s\n", string(body))
		return false
	}

	fmt.Printf("✅ %s %s - Status: %d\n", method, endpoint, resp.StatusCode)
	fmt.Printf("Response: %s\n", string(body))
	return true
}
