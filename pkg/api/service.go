package api

// HealthResponse представляет ответ GET /health
type HealthResponse struct {
	Status        string  `json:"status"`        // всегда "ok"
	CurrentLeader string  `json:"currentLeader"` // id лидера или "none"
	Timestamp     int64   `json:"timestamp"`     // серверное время в ms
	Uptime        float64 `json:"uptime"`        // время работы процесса в секундах
}

// InfoResponse представляет описание сервиса (GET /)
type InfoResponse struct {
	Name          string   `json:"name"`
	Version       string   `json:"version"`
	CurrentLeader string   `json:"currentLeader"` // id лидера или "none"
	LastHeartbeat string   `json:"lastHeartbeat"` // ISO-8601 или "never"
	Endpoints     []string `json:"endpoints"`
	BrowserCount  int      `json:"browserCount"` // 1 если лидер есть, иначе 0
}

// SuccessResponse представляет подтверждение записи состояния
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
	Success *bool  `json:"success,omitempty"` // false для ответов claim-leader
}

// NoLeader значение currentLeader, когда лидера нет
const NoLeader = "none"

// NeverHeartbeat значение lastHeartbeat, когда heartbeat не было
const NeverHeartbeat = "never"
