package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/wekeepgrowing/semo-customer/internal/usecase"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type usersFile struct {
	Users []string `yaml:"users"`
}

// loadUserIDsFromYAML reads a manifest of the form
//
//	users:
//	  - user_2abc
//	  - user_2def
//
// Blank entries are rejected and duplicates are dropped.
func loadUserIDsFromYAML(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var file usersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal users yaml: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Users))
	userIDs := make([]string, 0, len(file.Users))
	for i, raw := range file.Users {
		userID := strings.TrimSpace(raw)
		if userID == "" {
			return nil, fmt.Errorf("users[%d]: user id is required", i)
		}
		if _, dup := seen[userID]; dup {
			continue
		}
		seen[userID] = struct{}{}
		userIDs = append(userIDs, userID)
	}

	return userIDs, nil
}

type provisioner interface {
	Provision(ctx context.Context, userID string) usecase.ProvisionResult
}

type backfillReport struct {
	Created  int
	Existing int
	Failed   []string
}

func backfill(ctx context.Context, svc provisioner, userIDs []string, logger *zap.Logger) backfillReport {
	var report backfillReport
	for _, userID := range userIDs {
		result := svc.Provision(ctx, userID)
		switch {
		case !result.Success:
			report.Failed = append(report.Failed, userID)
		case result.Created:
			report.Created++
			logger.Info("Customer created", zap.String("user_id", userID))
		default:
			report.Existing++
		}
	}
	return report
}
