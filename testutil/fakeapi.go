package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
)

// FakeUser is an account the fake backend accepts at /auth/login
type FakeUser struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"-"`
	Token    string `json:"-"`
}

type FakeComplaint struct {
	ID           int    `json:"id"`
	Subject      string `json:"subject"`
	Description  string `json:"description"`
	UserEmail    string `json:"user_email"`
	Status       string `json:"status"`
	AdminNotes   string `json:"admin_notes,omitempty"`
	BranchName   string `json:"branch_name,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
	CreatedAt    string `json:"created_at"`
}

type FakeBranch struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	AdminID   *int   `json:"admin_id"`
	AdminName string `json:"admin_name,omitempty"`
}

type FakePermissions struct {
	ViewOnly   bool `json:"viewOnly"`
	FullAccess bool `json:"fullAccess"`
}

type FakeAdmin struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Password    string          `json:"password,omitempty"`
	Permissions FakePermissions `json:"permissions"`
	IsActive    bool            `json:"is_active"`
	BranchID    *int            `json:"branch_id"`
	BranchName  string          `json:"branch_name,omitempty"`
}

// RecordedRequest is a request seen by the fake backend
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// FakeAPI is an in-memory complaint backend served over httptest
type FakeAPI struct {
	Server *httptest.Server

	mu         sync.Mutex
	Users      []FakeUser
	Complaints []FakeComplaint
	Branches   []FakeBranch
	Admins     []FakeAdmin
	Categories []map[string]interface{}
	Requests   []RecordedRequest
	ResetSent  []int
	// AckWrites makes create and update handlers answer with a bare
	// message instead of the saved record.
	AckWrites bool
	nextID    int
	failures   []fakeFailure
}

type fakeFailure struct {
	status  int
	message string
}

// NewFakeAPI starts a fake backend seeded with one super admin
// (root@example.com / secret, token "super-token"), one branch admin
// (branch@example.com / secret, token "branch-token") and sample data.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	branchID := 1
	f := &FakeAPI{
		Users: []FakeUser{
			{ID: 1, Name: "Root", Email: "root@example.com", Role: "super_admin", Password: "secret", Token: "super-token"},
			{ID: 2, Name: "Branch", Email: "branch@example.com", Role: "branch_admin", Password: "secret", Token: "branch-token"},
		},
		Complaints: []FakeComplaint{
			{ID: 1, Subject: "Broken ATM", Description: "The ATM ate my card", UserEmail: "a@example.com", Status: "open", BranchName: "Downtown", CategoryName: "Service", CreatedAt: "2024-03-01T10:00:00Z"},
			{ID: 2, Subject: "Long queue", Description: "Waited an hour", UserEmail: "b@example.com", Status: "pending", BranchName: "Downtown", CategoryName: "Waiting", CreatedAt: "2024-03-02T11:00:00Z"},
			{ID: 3, Subject: "Rude staff", Description: "Teller was rude", UserEmail: "c@example.com", Status: "resolved", AdminNotes: "Apologized", CreatedAt: "2024-03-02T12:00:00Z"},
		},
		Branches: []FakeBranch{
			{ID: 1, Name: "Downtown", Address: "1 Main St", AdminID: intPtr(2), AdminName: "Branch"},
			{ID: 2, Name: "Uptown", Address: "9 Hill Rd"},
		},
		Admins: []FakeAdmin{
			{ID: 2, Name: "Branch", Email: "branch@example.com", Permissions: FakePermissions{FullAccess: true}, IsActive: true, BranchID: &branchID, BranchName: "Downtown"},
			{ID: 3, Name: "Spare", Email: "spare@example.com", Permissions: FakePermissions{ViewOnly: true}, IsActive: true},
		},
		Categories: []map[string]interface{}{
			{"id": 1, "name": "Service"},
			{"id": 2, "name": "Waiting"},
		},
		nextID: 100,
	}

	r := mux.NewRouter()
	r.Use(f.record)
	r.HandleFunc("/auth/login", f.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/forgot-password", f.forgotPassword).Methods(http.MethodPost)

	r.HandleFunc("/branches", f.authed("", f.listBranches)).Methods(http.MethodGet)
	r.HandleFunc("/complaint_categories", f.authed("", f.listCategories)).Methods(http.MethodGet)

	sa := r.PathPrefix("/super_admin").Subrouter()
	sa.HandleFunc("/dashboard", f.authed("super_admin", f.dashboard)).Methods(http.MethodGet)
	sa.HandleFunc("/branches", f.authed("super_admin", f.listBranches)).Methods(http.MethodGet)
	sa.HandleFunc("/branches", f.authed("super_admin", f.saveBranch)).Methods(http.MethodPost)
	sa.HandleFunc("/branches/unassigned", f.authed("super_admin", f.unassignedBranches)).Methods(http.MethodGet)
	sa.HandleFunc("/branches/{id:[0-9]+}", f.authed("super_admin", f.saveBranch)).Methods(http.MethodPut)
	sa.HandleFunc("/branches/{id:[0-9]+}", f.authed("super_admin", f.deleteBranch)).Methods(http.MethodDelete)
	sa.HandleFunc("/admins", f.authed("super_admin", f.listAdmins)).Methods(http.MethodGet)
	sa.HandleFunc("/admins", f.authed("super_admin", f.saveAdmin)).Methods(http.MethodPost)
	sa.HandleFunc("/admins/unassigned", f.authed("super_admin", f.unassignedAdmins)).Methods(http.MethodGet)
	sa.HandleFunc("/admins/{id:[0-9]+}", f.authed("super_admin", f.saveAdmin)).Methods(http.MethodPut)
	sa.HandleFunc("/admins/{id:[0-9]+}", f.authed("super_admin", f.deleteAdmin)).Methods(http.MethodDelete)
	sa.HandleFunc("/admins/{id:[0-9]+}/reset-password", f.authed("super_admin", f.resetPassword)).Methods(http.MethodPost)

	na := r.PathPrefix("/normal_admin").Subrouter()
	na.HandleFunc("/complaints", f.authed("", f.listComplaints)).Methods(http.MethodGet)
	na.HandleFunc("/complaints/{id:[0-9]+}", f.authed("", f.getComplaint)).Methods(http.MethodGet)
	na.HandleFunc("/complaints/{id:[0-9]+}/status", f.authed("", f.updateStatus)).Methods(http.MethodPut)

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the base URL of the fake backend
func (f *FakeAPI) URL() string {
	return f.Server.URL
}

// FailNext makes the next request answer with status and message
func (f *FakeAPI) FailNext(status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, fakeFailure{status: status, message: message})
}

// LastRequest returns the most recent request, or the zero value
func (f *FakeAPI) LastRequest() RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Requests) == 0 {
		return RecordedRequest{}
	}
	return f.Requests[len(f.Requests)-1]
}

// RequestCount returns how many requests reached path
func (f *FakeAPI) RequestCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.Requests {
		if r.Path == path {
			n++
		}
	}
	return n
}

func (f *FakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		f.mu.Lock()
		f.Requests = append(f.Requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		var failure *fakeFailure
		if len(f.failures) > 0 {
			failure = &f.failures[0]
			f.failures = f.failures[1:]
		}
		f.mu.Unlock()

		if failure != nil {
			writeJSON(w, failure.status, map[string]string{"message": failure.message})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) authed(role string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		f.mu.Lock()
		var user *FakeUser
		for i := range f.Users {
			if f.Users[i].Token != "" && f.Users[i].Token == token {
				user = &f.Users[i]
			}
		}
		f.mu.Unlock()

		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		if role != "" && user.Role != role {
			writeJSON(w, http.StatusForbidden, map[string]string{"message": "Forbidden"})
			return
		}
		h(w, r)
	}
}

func (f *FakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Malformed request"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.Users {
		if u.Email == req.Email && u.Password == req.Password {
			writeJSON(w, http.StatusOK, map[string]interface{}{"token": u.Token, "user": u})
			return
		}
	}
	writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
}

func (f *FakeAPI) forgotPassword(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Reset link sent"})
}

func (f *FakeAPI) dashboard(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int{}
	for _, c := range f.Complaints {
		counts[c.Status]++
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"totalComplaints":    len(f.Complaints),
		"openComplaints":     counts["open"],
		"resolvedComplaints": counts["resolved"],
		"pendingComplaints":  counts["pending"],
	})
}

func (f *FakeAPI) listCategories(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, f.Categories)
}

func (f *FakeAPI) listBranches(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, f.Branches)
}

func (f *FakeAPI) unassignedBranches(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []FakeBranch{}
	for _, b := range f.Branches {
		if b.AdminID == nil {
			out = append(out, b)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) saveBranch(w http.ResponseWriter, r *http.Request) {
	var in FakeBranch
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Malformed request"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if idStr, ok := mux.Vars(r)["id"]; ok {
		id, _ := strconv.Atoi(idStr)
		for i := range f.Branches {
			if f.Branches[i].ID == id {
				in.ID = id
				f.Branches[i] = in
				f.writeSaved(w, http.StatusOK, in)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Branch not found"})
		return
	}
	f.nextID++
	in.ID = f.nextID
	f.Branches = append(f.Branches, in)
	f.writeSaved(w, http.StatusCreated, in)
}

func (f *FakeAPI) deleteBranch(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, b := range f.Branches {
		if b.ID == id {
			f.Branches = append(f.Branches[:i], f.Branches[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Branch not found"})
}

func (f *FakeAPI) listAdmins(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, f.Admins)
}

func (f *FakeAPI) unassignedAdmins(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []FakeAdmin{}
	for _, a := range f.Admins {
		if a.BranchID == nil {
			out = append(out, a)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) saveAdmin(w http.ResponseWriter, r *http.Request) {
	var in FakeAdmin
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Malformed request"})
		return
	}
	in.Password = ""

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.Admins {
		if a.Email == in.Email && mux.Vars(r)["id"] != strconv.Itoa(a.ID) {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "Email already in use"})
			return
		}
	}
	if idStr, ok := mux.Vars(r)["id"]; ok {
		id, _ := strconv.Atoi(idStr)
		for i := range f.Admins {
			if f.Admins[i].ID == id {
				in.ID = id
				f.Admins[i] = in
				f.writeSaved(w, http.StatusOK, in)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Admin not found"})
		return
	}
	f.nextID++
	in.ID = f.nextID
	f.Admins = append(f.Admins, in)
	f.writeSaved(w, http.StatusCreated, in)
}

func (f *FakeAPI) deleteAdmin(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, a := range f.Admins {
		if a.ID == id {
			f.Admins = append(f.Admins[:i], f.Admins[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Admin not found"})
}

func (f *FakeAPI) resetPassword(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ResetSent = append(f.ResetSent, id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset link sent"})
}

func (f *FakeAPI) listComplaints(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []FakeComplaint{}
	for _, c := range f.Complaints {
		if s := q.Get("status"); s != "" && c.Status != s {
			continue
		}
		if d := q.Get("date"); d != "" && !strings.HasPrefix(c.CreatedAt, d) {
			continue
		}
		if s := strings.ToLower(q.Get("search")); s != "" &&
			!strings.Contains(strings.ToLower(c.Subject), s) &&
			!strings.Contains(strings.ToLower(c.Description), s) {
			continue
		}
		out = append(out, c)
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) getComplaint(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.Complaints {
		if c.ID == id {
			writeJSON(w, http.StatusOK, c)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Complaint not found"})
}

func (f *FakeAPI) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var req struct {
		Status     string `json:"status"`
		AdminNotes string `json:"admin_notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Malformed request"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Complaints {
		if f.Complaints[i].ID == id {
			f.Complaints[i].Status = req.Status
			f.Complaints[i].AdminNotes = req.AdminNotes
			f.writeSaved(w, http.StatusOK, f.Complaints[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Complaint not found"})
}

func (f *FakeAPI) writeSaved(w http.ResponseWriter, status int, v interface{}) {
	if f.AckWrites {
		writeJSON(w, status, map[string]string{"message": "Saved"})
		return
	}
	writeJSON(w, status, v)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func intPtr(i int) *int {
	return &i
}
