package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

type LogStats struct {
	TotalErrors            int
	RedemptionsRecorded    int
	DenialsByReason        map[string]int
	SubscriptionsOpened    int
	SubscriptionsActivated int
	InvitesSent            int
	StaffLoginFailures     int
	UserActivities         map[uint]int
	ErrorPatterns          map[string]int
}

func main() {
	// Get today's date for log file names
	today := time.Now().Format("2006-01-02")
	logDir := "./logs"

	stats := &LogStats{
		DenialsByReason: make(map[string]int),
		UserActivities:  make(map[uint]int),
		ErrorPatterns:   make(map[string]int),
	}

	analyzeErrorLogs(filepath.Join(logDir, fmt.Sprintf("error-%s.log", today)), stats)
	analyzeInfoLogs(filepath.Join(logDir, fmt.Sprintf("info-%s.log", today)), stats)
	analyzeDebugLogs(filepath.Join(logDir, fmt.Sprintf("debug-%s.log", today)), stats)

	printReport(stats)
}

func analyzeErrorLogs(logFile string, stats *LogStats) {
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", logFile, err)
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		stats.TotalErrors++

		if strings.Contains(line, "Invalid password for admin") ||
			strings.Contains(line, "Invalid password for cashier") ||
			strings.Contains(line, "attempted login") {
			stats.StaffLoginFailures++
		}

		extractErrorPattern(line, stats)
	}
}

func analyzeInfoLogs(logFile string, stats *LogStats) {
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", logFile, err)
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()

		if strings.Contains(line, "Recorded") && strings.Contains(line, "redemption") {
			stats.RedemptionsRecorded++
			extractUserActivity(line, stats)
		}
		if strings.Contains(line, "joined plan") {
			stats.SubscriptionsOpened++
		}
		if strings.Contains(line, "activated for user") {
			stats.SubscriptionsActivated++
		}
		if strings.Contains(line, "invited") {
			stats.InvitesSent++
		}
	}
}

func analyzeDebugLogs(logFile string, stats *LogStats) {
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", logFile, err)
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, "No active subscription for user") {
			stats.DenialsByReason["no active subscription"]++
		}
		if strings.Contains(line, "expired at") {
			stats.DenialsByReason["subscription expired"]++
		}
		if strings.Contains(line, "Bulk redemption rejected") {
			stats.DenialsByReason["bulk over remaining"]++
		}
	}
}

func extractUserActivity(line string, stats *LogStats) {
	// Extract the user ID from "for user N" in log lines
	userRegex := regexp.MustCompile(`for user (\d+)`)
	if match := userRegex.FindStringSubmatch(line); len(match) == 2 {
		var id uint
		fmt.Sscanf(match[1], "%d", &id)
		stats.UserActivities[id]++
	}
}

func extractErrorPattern(line string, stats *LogStats) {
	// Extract the main error message
	parts := strings.Split(line, ":")
	if len(parts) > 1 {
		errorMsg := strings.TrimSpace(parts[1])
		stats.ErrorPatterns[errorMsg]++
	}
}

func printReport(stats *LogStats) {
	fmt.Println("\n=== Log Analysis Report ===")
	fmt.Println("Generated:", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Println("\n1. Redemption Activity:")
	fmt.Printf("   Redemptions Recorded: %d\n", stats.RedemptionsRecorded)
	for reason, count := range stats.DenialsByReason {
		fmt.Printf("   Denied (%s): %d\n", reason, count)
	}

	fmt.Println("\n2. Membership Activity:")
	fmt.Printf("   Subscriptions Opened: %d\n", stats.SubscriptionsOpened)
	fmt.Printf("   Subscriptions Activated: %d\n", stats.SubscriptionsActivated)
	fmt.Printf("   Invites Sent: %d\n", stats.InvitesSent)

	fmt.Println("\n3. Security:")
	fmt.Printf("   Failed Staff Logins: %d\n", stats.StaffLoginFailures)

	fmt.Println("\n4. Error Statistics:")
	fmt.Printf("   Total Errors: %d\n", stats.TotalErrors)

	fmt.Println("\n5. Most Active Members:")
	printTopUsers(stats.UserActivities, 5)

	fmt.Println("\n6. Most Common Errors:")
	printTopErrors(stats.ErrorPatterns, 5)
}

func printTopUsers(users map[uint]int, limit int) {
	type userActivity struct {
		id    uint
		count int
	}

	var activities []userActivity
	for id, count := range users {
		activities = append(activities, userActivity{id, count})
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].count > activities[j].count
	})

	for i, activity := range activities {
		if i >= limit {
			break
		}
		fmt.Printf("   user %d: %d redemptions\n", activity.id, activity.count)
	}
}

func printTopErrors(errors map[string]int, limit int) {
	type errorCount struct {
		error string
		count int
	}

	var errorList []errorCount
	for err, count := range errors {
		errorList = append(errorList, errorCount{err, count})
	}

	sort.Slice(errorList, func(i, j int) bool {
		return errorList[i].count > errorList[j].count
	})

	for i, err := range errorList {
		if i >= limit {
			break
		}
		fmt.Printf("   %s: %d occurrences\n", err.error, err.count)
	}
}
