package cloudfunction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/lumiforge/video-bridge/internal/bootstrap"
)

// CloudFunctionRequest структура запроса от API Gateway
type CloudFunctionRequest struct {
	HTTPMethod        string            `json:"httpMethod"`
	Headers           map[string]string `json:"headers"`
	Path              string            `json:"path"`
	QueryStringParams map[string]string `json:"queryStringParameters"`
	Body              string            `json:"body"`
	IsBase64Encoded   bool              `json:"isBase64Encoded"`
}

// CloudFunctionResponse структура ответа для API Gateway
type CloudFunctionResponse struct {
	StatusCode      int               `json:"statusCode"`
	Headers         map[string]string `json:"headers"`
	Body            string            `json:"body"`
	IsBase64Encoded bool              `json:"isBase64Encoded"`
}

var (
	initOnce sync.Once
	initErr  error
	router   http.Handler
)

// Handler - главная функция для Cloud Function
func Handler(ctx context.Context, request []byte) ([]byte, error) {
	// Инициализация при первом вызове (холодный старт)
	initOnce.Do(func() {
		app, err := bootstrap.Initialize(ctx)
		if err != nil {
			initErr = err
			return
		}
		router = app.Handler
		slog.Info("Cloud Function initialized successfully")
	})
	if initErr != nil {
		return respondError(500, "Failed to initialize: "+initErr.Error())
	}

	return serve(router, request)
}

func serve(h http.Handler, request []byte) ([]byte, error) {
	// Парсинг запроса от API Gateway
	var cfReq CloudFunctionRequest
	if err := json.Unmarshal(request, &cfReq); err != nil {
		slog.Error("Failed to parse request", "error", err)
		return respondError(400, "Invalid request format")
	}

	httpReq, err := buildHTTPRequest(&cfReq)
	if err != nil {
		slog.Warn("Failed to build HTTP request", "error", err)
		return respondError(400, "Failed to build request")
	}

	// Создаём ResponseRecorder для захвата ответа
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httpReq)

	return buildCloudFunctionResponse(rr), nil
}

// buildHTTPRequest - создание HTTP запроса из Cloud Function request
func buildHTTPRequest(cfReq *CloudFunctionRequest) (*http.Request, error) {
	// multipart-загрузки приходят в base64
	var body []byte
	if cfReq.Body != "" {
		if cfReq.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(cfReq.Body)
			if err != nil {
				return nil, err
			}
			body = decoded
		} else {
			body = []byte(cfReq.Body)
		}
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(cfReq.HTTPMethod, cfReq.Path, bodyReader)
	if err != nil {
		return nil, err
	}

	for key, value := range cfReq.Headers {
		req.Header.Set(key, value)
	}

	if len(cfReq.QueryStringParams) > 0 {
		q := req.URL.Query()
		for key, value := range cfReq.QueryStringParams {
			q.Add(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	return req, nil
}

// buildCloudFunctionResponse - создание Cloud Function response из HTTP response
func buildCloudFunctionResponse(rr *httptest.ResponseRecorder) []byte {
	headers := make(map[string]string)
	for key, values := range rr.Header() {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}

	response := CloudFunctionResponse{
		StatusCode: rr.Code,
		Headers:    headers,
	}

	// Метрики и JSON отдаются как текст, остальное в base64
	data := rr.Body.Bytes()
	ct := rr.Header().Get("Content-Type")
	if utf8.Valid(data) && (ct == "" || strings.HasPrefix(ct, "text/") || strings.Contains(ct, "json")) {
		response.Body = string(data)
	} else {
		response.Body = base64.StdEncoding.EncodeToString(data)
		response.IsBase64Encoded = true
	}

	respData, _ := json.Marshal(response)
	return respData
}

// respondError - вспомогательная функция для ответа об ошибке
func respondError(statusCode int, message string) ([]byte, error) {
	errorBody := map[string]string{
		"error": message,
	}
	body, _ := json.Marshal(errorBody)

	response := CloudFunctionResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body:            string(body),
		IsBase64Encoded: false,
	}

	return json.Marshal(response)
}
