package security

import (
	"bufio"
	"encoding/json"
	"io"
	"testing"

	"go.uber.org/mock/gomock"
	"liyu1981.xyz/ai-security-service/pkg/db"
	"liyu1981.xyz/ai-security-service/pkg/metrics"
	"liyu1981.xyz/ai-security-service/pkg/security/mocks"
)

func GetMockSecurityWithMemorySqliteDialector(t *testing.T, useMockICamera, useMockIAccount, useMockIDetection, useMockIAlert bool) (
	*gomock.Controller,
	*Security,
	*mocks.MockICamera,
	*mocks.MockIAccount,
	*mocks.MockIDetection,
	*mocks.MockIAlert,
) {
	ctrl := gomock.NewController(t)

	mockICamera := mocks.NewMockICamera(ctrl)
	mockIAccount := mocks.NewMockIAccount(ctrl)
	mockIDetection := mocks.NewMockIDetection(ctrl)
	mockIAlert := mocks.NewMockIAlert(ctrl)
	dialector := db.UseMemorySqliteDialector()
	dbInstance := db.GetInstance(dialector) // ensure migrations
	securityInstance := (&Security{Db: dbInstance, Metrics: metrics.New()})

	cameraService := securityInstance.GetICamera()
	if useMockICamera {
		cameraService = mockICamera
	}

	accountService := securityInstance.GetIAccount()
	if useMockIAccount {
		accountService = mockIAccount
	}

	detectionService := securityInstance.GetIDetection()
	if useMockIDetection {
		detectionService = mockIDetection
	}

	alertService := securityInstance.GetIAlert()
	if useMockIAlert {
		alertService = mockIAlert
	}

	securityInstance.WithServices(ServiceOpts{
		Camera:    cameraService,
		Account:   accountService,
		Detection: detectionService,
		Alert:     alertService,
		Notifier:  &LogNotifier{},
	})

	return ctrl, securityInstance, mockICamera, mockIAccount, mockIDetection, mockIAlert
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}
