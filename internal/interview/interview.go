// Package interview holds the request model shared by the evaluation and
// generation flows, plus the error values both report.
package interview

// Context describes one interview question the candidate is preparing for.
// It is built per request and never modified afterwards.
type Context struct {
	Role            string
	Company         string
	ExperienceLevel string
	Question        string
	Answer          string
	FreeformContext string
}

// Prompt is the pair of instruction texts sent to the model.
type Prompt struct {
	System string
	User   string
}
