// jobmate-match-service
//
// Scores candidate profiles against job postings and calibrates each user's
// scoring weights from application outcomes.
//
//	serve      HTTP + gRPC API, CMD_ANALYZE_JOB subscriber, discovery and
//	           follow-up cron jobs
//	score      one-off scoring of local JSON files
//	calibrate  one feedback step on a local weights file
//	migrate    apply database migrations
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
