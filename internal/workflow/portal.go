package workflow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/skoirala/nepse-agent/internal/types"
)

// Portal selectors. The login screen uses a select2 widget for the DP
// dropdown; the ASBA screen renders one .company-list block per open issue.
const (
	selDPWidget      = "span.select2-selection"
	selDPSearch      = "input.select2-search__field"
	selDPHighlighted = ".select2-results__option--highlighted"
	selUsername      = "input[formcontrolname='username']"
	selPassword      = "input[formcontrolname='password']"
	selSignIn        = "button.btn.sign-in"
	selCompanyList   = ".company-list"
	selBankSelect    = "select#selectBank"
	selAccountSelect = "select#accountNumber"
	selKitta         = "input#appliedKitta"
	selCRN           = "input#crnNumber"
	selDisclaimer    = "input#disclaimer"
	selProceed       = "button.btn-primary[type='submit']"
	selPIN           = "input#transactionPIN"
)

// issueProbe is what the ASBA page reports about the target issue row.
type issueProbe struct {
	Found   bool   `json:"found"`
	Applied bool   `json:"applied"`
	Index   int    `json:"index"`
	Company string `json:"company"`
}

// issueProbeJS scans the rendered company list for an ordinary-share issue,
// optionally restricted to a company name fragment. A row whose action
// button reads Edit or View has already been applied for.
const issueProbeJS = `(function(target) {
	var rows = document.querySelectorAll('.company-list');
	for (var i = 0; i < rows.length; i++) {
		var name = (rows[i].querySelector('.company-name span') || {}).textContent || '';
		var kind = (rows[i].querySelector('.share-of-type') || {}).textContent || '';
		var btn = rows[i].querySelector('button.btn-issue');
		if (kind.toLowerCase().indexOf('ordinary') === -1) continue;
		if (target && name.toLowerCase().indexOf(target.toLowerCase()) === -1) continue;
		var label = btn ? btn.textContent.toLowerCase() : '';
		return {
			found: true,
			applied: label.indexOf('edit') !== -1 || label.indexOf('view') !== -1,
			index: i,
			company: name.trim()
		};
	}
	return {found: false, applied: false, index: -1, company: ''};
})(%s)`

// Portal implements the five application stages against a Meroshare
// deployment.
type Portal struct {
	// BaseURL is the portal origin without a trailing slash.
	BaseURL string
	// Issue restricts SelectForm to a company name fragment. Empty targets
	// the first open ordinary-share issue.
	Issue string
}

// Stages returns the fixed stage order for one application.
func (p *Portal) Stages() []Stage {
	return []Stage{
		{Name: "login", Run: p.Login},
		{Name: "select_form", Run: p.SelectForm},
		{Name: "select_dp", Run: p.SelectDP},
		{Name: "fill_details", Run: p.FillDetails},
		{Name: "confirm_submit", Run: p.ConfirmSubmit},
	}
}

// invalidCredentialMarkers are substrings the portal shows on a rejected
// sign-in.
var invalidCredentialMarkers = []string{
	"invalid username or password",
	"confidential information",
	"user is blocked",
}

// Login authenticates the member: DP from the select2 widget, then
// credentials.
func (p *Portal) Login(ctx context.Context, d Driver, m types.MemberRecord) StageResult {
	if err := d.Navigate(ctx, p.BaseURL+"/#/login"); err != nil {
		return Retry(&TransientNavigationError{Op: "open login page", Cause: err})
	}
	if err := d.WaitVisible(ctx, selDPWidget); err != nil {
		return Retry(&TransientNavigationError{Op: "wait for login form", Cause: err})
	}

	// The DP dropdown is a select2 widget: open it, type the id, pick the
	// highlighted match.
	if err := d.Click(ctx, selDPWidget); err != nil {
		return Retry(&TransientNavigationError{Op: "open DP dropdown", Cause: err})
	}
	if err := d.Fill(ctx, selDPSearch, m.DPID); err != nil {
		return Retry(&TransientNavigationError{Op: "search DP", Cause: err})
	}
	if err := d.WaitVisible(ctx, selDPHighlighted); err != nil {
		return Fatal(&ConfigurationError{
			Field:   "dp_value",
			Message: fmt.Sprintf("DP %s matched nothing in the login dropdown", m.DPID),
		})
	}
	if err := d.Click(ctx, selDPHighlighted); err != nil {
		return Retry(&TransientNavigationError{Op: "pick DP", Cause: err})
	}

	if err := d.Fill(ctx, selUsername, m.Username); err != nil {
		return Retry(&TransientNavigationError{Op: "fill username", Cause: err})
	}
	if err := d.Fill(ctx, selPassword, m.Password); err != nil {
		return Retry(&TransientNavigationError{Op: "fill password", Cause: err})
	}
	if err := d.Click(ctx, selSignIn); err != nil {
		return Retry(&TransientNavigationError{Op: "submit sign-in", Cause: err})
	}

	// The portal either routes away from #/login or re-renders it with an
	// error message.
	deadline := time.NewTicker(500 * time.Millisecond)
	defer deadline.Stop()
	for {
		loc, err := d.CurrentURL(ctx)
		if err == nil && !strings.Contains(loc, "#/login") {
			return OK()
		}

		body, terr := d.Text(ctx, "body")
		if terr == nil {
			lower := strings.ToLower(body)
			for _, marker := range invalidCredentialMarkers {
				if strings.Contains(lower, marker) {
					return Fatal(&AuthenticationError{Member: m.Name, Message: strings.TrimSpace(marker)})
				}
			}
		}

		select {
		case <-ctx.Done():
			return Retry(&TransientNavigationError{Op: "wait for sign-in", Cause: ctx.Err()})
		case <-deadline.C:
		}
	}
}

// SelectForm opens the ASBA list, finds the target issue row, and clicks
// Apply.
func (p *Portal) SelectForm(ctx context.Context, d Driver, m types.MemberRecord) StageResult {
	if err := d.Navigate(ctx, p.BaseURL+"/#/asba"); err != nil {
		return Retry(&TransientNavigationError{Op: "open ASBA page", Cause: err})
	}
	if err := d.WaitVisible(ctx, selCompanyList); err != nil {
		if body, terr := d.Text(ctx, "body"); terr == nil &&
			strings.Contains(strings.ToLower(body), "no data available") {
			return Fatal(&BusinessStateError{Kind: NoSharesAvailable, Message: "ASBA list is empty"})
		}
		return Retry(&TransientNavigationError{Op: "wait for ASBA list", Cause: err})
	}

	var probe issueProbe
	if err := d.Eval(ctx, fmt.Sprintf(issueProbeJS, strconv.Quote(p.Issue)), &probe); err != nil {
		return Retry(&TransientNavigationError{Op: "scan ASBA list", Cause: err})
	}
	if !probe.Found {
		return Fatal(&BusinessStateError{Kind: NoSharesAvailable, Message: "no open ordinary-share issue"})
	}
	if probe.Applied {
		return Fatal(&BusinessStateError{
			Kind:    AlreadyApplied,
			Message: fmt.Sprintf("%s already has an application for %s", m.Name, probe.Company),
		})
	}

	clickJS := fmt.Sprintf(
		`document.querySelectorAll('.company-list')[%d].querySelector('button.btn-issue').click(); true`,
		probe.Index)
	var clicked bool
	if err := d.Eval(ctx, clickJS, &clicked); err != nil {
		return Retry(&TransientNavigationError{Op: "open application form", Cause: err})
	}
	return OK()
}

// SelectDP picks the depository participant on the application form. The
// configured id must appear in the rendered option list; anything else is
// record drift, not a portal fault.
func (p *Portal) SelectDP(ctx context.Context, d Driver, m types.MemberRecord) StageResult {
	if err := d.WaitVisible(ctx, selBankSelect); err != nil {
		return Retry(&TransientNavigationError{Op: "wait for application form", Cause: err})
	}
	if err := d.SelectByText(ctx, selBankSelect, m.DPID); err != nil {
		return Fatal(&ConfigurationError{
			Field:   "dp_value",
			Message: fmt.Sprintf("participant %s is not in the form's list", m.DPID),
		})
	}
	return OK()
}

// detailRejectionMarkers are portal validation messages that make the
// application unsubmittable as configured.
var detailRejectionMarkers = []string{
	"not have sufficient balance",
	"invalid crn",
	"crn number is invalid",
}

// FillDetails selects the bank account and fills kitta, CRN, the
// disclaimer, and the transaction PIN.
func (p *Portal) FillDetails(ctx context.Context, d Driver, m types.MemberRecord) StageResult {
	if err := d.WaitVisible(ctx, selAccountSelect); err != nil {
		return Retry(&TransientNavigationError{Op: "wait for account field", Cause: err})
	}

	// Pick the first real account option and let Angular see the change.
	accountJS := `(function() {
		var sel = document.querySelector('select#accountNumber');
		if (!sel || sel.options.length < 2) return false;
		sel.selectedIndex = 1;
		sel.dispatchEvent(new Event('change', {bubbles: true}));
		return true;
	})()`
	var picked bool
	if err := d.Eval(ctx, accountJS, &picked); err != nil || !picked {
		return Retry(&TransientNavigationError{Op: "select bank account", Cause: err})
	}

	if err := d.Fill(ctx, selKitta, strconv.Itoa(m.Kitta)); err != nil {
		return Retry(&TransientNavigationError{Op: "fill kitta", Cause: err})
	}
	if err := d.Fill(ctx, selCRN, m.CRN); err != nil {
		return Retry(&TransientNavigationError{Op: "fill CRN", Cause: err})
	}

	if body, err := d.Text(ctx, "body"); err == nil {
		lower := strings.ToLower(body)
		for _, marker := range detailRejectionMarkers {
			if strings.Contains(lower, marker) {
				return Fatal(&ConfigurationError{Field: "application", Message: marker})
			}
		}
	}

	if err := d.Click(ctx, selDisclaimer); err != nil {
		return Retry(&TransientNavigationError{Op: "accept disclaimer", Cause: err})
	}
	if err := d.Click(ctx, selProceed); err != nil {
		return Retry(&TransientNavigationError{Op: "proceed to confirmation", Cause: err})
	}

	if err := d.WaitVisible(ctx, selPIN); err != nil {
		return Retry(&TransientNavigationError{Op: "wait for PIN field", Cause: err})
	}
	if err := d.Fill(ctx, selPIN, m.TransactionPIN); err != nil {
		return Retry(&TransientNavigationError{Op: "fill transaction PIN", Cause: err})
	}
	return OK()
}

// ConfirmSubmit clicks the final Apply and waits for a confirmation signal.
// Success requires positive evidence: a toast containing "successfully" or
// the ASBA row re-rendering as applied. A submission with neither is
// indeterminate, never success.
func (p *Portal) ConfirmSubmit(ctx context.Context, d Driver, m types.MemberRecord) StageResult {
	if err := d.Click(ctx, selProceed); err != nil {
		return Retry(&TransientNavigationError{Op: "click final apply", Cause: err})
	}

	tick := time.NewTicker(500 * time.Millisecond)
	defer tick.Stop()
	for {
		body, err := d.Text(ctx, "body")
		if err == nil {
			lower := strings.ToLower(body)
			if strings.Contains(lower, "successfully") {
				return OK()
			}
			if strings.Contains(lower, "already applied") {
				return Fatal(&BusinessStateError{Kind: AlreadyApplied, Message: "portal reported an existing application"})
			}
		}

		var probe issueProbe
		if perr := d.Eval(ctx, fmt.Sprintf(issueProbeJS, strconv.Quote(p.Issue)), &probe); perr == nil &&
			probe.Found && probe.Applied {
			return OK()
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return Fatal(ctx.Err())
			}
			return Fatal(&IndeterminateOutcomeError{
				Message: "no confirmation within the stage timeout; verify manually on the portal",
			})
		case <-tick.C:
		}
	}
}
