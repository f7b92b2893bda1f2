// Package tui provides the terminal dashboard for pulse.
package tui

import (
	"github.com/pulseesg/pulse/internal/api"
	"github.com/pulseesg/pulse/internal/esg"
)

// Message types for dashboard state updates.
// Results of network commands carry the generation they were issued under
// so that answers arriving after the user moved on can be dropped.

// SessionExpiredMsg is sent by the API client hook after a 401/403 cleared the session.
type SessionExpiredMsg struct {
	Status int
}

// loginDoneMsg carries the outcome of a sign-in attempt.
type loginDoneMsg struct {
	resp *api.AuthResponse
	err  error
}

// dataLoadedMsg carries companies and the joined analysis history.
type dataLoadedMsg struct {
	gen       int
	companies []esg.Company
	analyses  []esg.AnalysisResult
	err       error
}

// refreshMsg asks the app to reload companies and history.
type refreshMsg struct{}

// analyzeDoneMsg carries the outcome of an analysis request.
type analyzeDoneMsg struct {
	gen    int
	result *esg.AnalysisResult
	err    error
}

// analyzeRotateMsg advances the loading message.
type analyzeRotateMsg struct {
	gen int
}

// analyzeElapsedMsg advances the elapsed counter by one second.
type analyzeElapsedMsg struct {
	gen int
}

// companySavedMsg carries the outcome of creating a company.
type companySavedMsg struct {
	company *esg.Company
	err     error
}

// companyDeletedMsg carries the outcome of deleting a company.
type companyDeletedMsg struct {
	id  int64
	err error
}

// noticeExpiredMsg clears the companies success message if it is still seq.
type noticeExpiredMsg struct {
	seq int
}
