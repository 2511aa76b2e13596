package models

type ProjectResponse struct {
	Project  *Project `json:"project"`
	Warnings []string `json:"warnings,omitempty"`
}

type ProjectListResponse struct {
	Projects []Project `json:"projects"`
	Total    int       `json:"total"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

type DiagnosticsResponse struct {
	Environment map[string]bool `json:"environment"`
	Store       CheckResult     `json:"store"`
	Bucket      CheckResult     `json:"bucket"`
	Files       CheckResult     `json:"files"`
	UploadProbe *CheckResult    `json:"upload_probe,omitempty"`
}

type CheckResult struct {
	OK     bool     `json:"ok"`
	Count  int64    `json:"count,omitempty"`
	Items  []string `json:"items,omitempty"`
	Error  string   `json:"error,omitempty"`
	Detail string   `json:"detail,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type SessionResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"`
	User         UserResponse `json:"user"`
}
