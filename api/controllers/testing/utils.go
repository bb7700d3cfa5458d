package testing

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"time"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/transport"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/gin-gonic/gin"
)

// Secret signs the tokens built by AuthHeader.
const Secret = "test-secret"

// PerformRequest Helper for performing requests in tests.
func PerformRequest(router *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			panic("failed to marshal request body: " + err.Error())
		}
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

// AuthHeader returns an Authorization header for a user with role.
func AuthHeader(userID int, role domain.Role) map[string]string {
	token, err := transport.SignToken(Secret, userID, role, time.Hour)
	if err != nil {
		panic("failed to sign token: " + err.Error())
	}
	return map[string]string{"Authorization": "Bearer " + token}
}
