package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDriver scripts driver behavior per call. Nil function fields succeed
// with zero values.
type fakeDriver struct {
	navigate     func(url string) error
	waitVisible  func(sel string) error
	click        func(sel string) error
	fill         func(sel, val string) error
	selectByText func(sel, contains string) error
	text         func(sel string) (string, error)
	exists       func(sel string) (bool, error)
	currentURL   func() (string, error)
	eval         func(expr string, out any) error

	clicked []string
	filled  map[string]string
}

func (f *fakeDriver) Navigate(_ context.Context, url string) error {
	if f.navigate != nil {
		return f.navigate(url)
	}
	return nil
}

func (f *fakeDriver) WaitVisible(_ context.Context, sel string) error {
	if f.waitVisible != nil {
		return f.waitVisible(sel)
	}
	return nil
}

func (f *fakeDriver) Click(_ context.Context, sel string) error {
	f.clicked = append(f.clicked, sel)
	if f.click != nil {
		return f.click(sel)
	}
	return nil
}

func (f *fakeDriver) Fill(_ context.Context, sel, val string) error {
	if f.filled == nil {
		f.filled = map[string]string{}
	}
	f.filled[sel] = val
	if f.fill != nil {
		return f.fill(sel, val)
	}
	return nil
}

func (f *fakeDriver) SelectByText(_ context.Context, sel, contains string) error {
	if f.selectByText != nil {
		return f.selectByText(sel, contains)
	}
	return nil
}

func (f *fakeDriver) Text(_ context.Context, sel string) (string, error) {
	if f.text != nil {
		return f.text(sel)
	}
	return "", nil
}

func (f *fakeDriver) Exists(_ context.Context, sel string) (bool, error) {
	if f.exists != nil {
		return f.exists(sel)
	}
	return false, nil
}

func (f *fakeDriver) CurrentURL(_ context.Context) (string, error) {
	if f.currentURL != nil {
		return f.currentURL()
	}
	return "https://portal.test/#/dashboard", nil
}

func (f *fakeDriver) Eval(_ context.Context, expr string, out any) error {
	if f.eval != nil {
		return f.eval(expr, out)
	}
	return nil
}

// probeEval scripts the ASBA row scan plus boolean click/select evals.
func probeEval(probe issueProbe) func(expr string, out any) error {
	return func(_ string, out any) error {
		switch v := out.(type) {
		case *issueProbe:
			*v = probe
		case *bool:
			*v = true
		}
		return nil
	}
}

func testPortal() *Portal {
	return &Portal{BaseURL: "https://portal.test"}
}

func TestLoginSuccess(t *testing.T) {
	d := &fakeDriver{}
	res := testPortal().Login(context.Background(), d, workflowMember())

	require.Equal(t, StageOK, res.Status)
	assert.Equal(t, "13700", d.filled[selDPSearch])
	assert.Equal(t, "01234567", d.filled[selUsername])
	assert.Equal(t, "secret-pass", d.filled[selPassword])
	assert.Contains(t, d.clicked, selSignIn)
}

func TestLoginInvalidCredentialsIsFatal(t *testing.T) {
	d := &fakeDriver{
		currentURL: func() (string, error) { return "https://portal.test/#/login", nil },
		text:       func(string) (string, error) { return "Invalid Username or Password", nil },
	}
	res := testPortal().Login(context.Background(), d, workflowMember())

	require.Equal(t, StageFatal, res.Status)
	var auth *AuthenticationError
	require.True(t, errors.As(res.Err, &auth))
	assert.Equal(t, "Ram", auth.Member)
}

func TestLoginUnknownDPIsFatalConfiguration(t *testing.T) {
	d := &fakeDriver{
		waitVisible: func(sel string) error {
			if sel == selDPHighlighted {
				return errors.New("timeout")
			}
			return nil
		},
	}
	res := testPortal().Login(context.Background(), d, workflowMember())

	require.Equal(t, StageFatal, res.Status)
	var cfg *ConfigurationError
	require.True(t, errors.As(res.Err, &cfg))
	assert.Equal(t, "dp_value", cfg.Field)
}

func TestLoginNavigationErrorIsRetryable(t *testing.T) {
	d := &fakeDriver{navigate: func(string) error { return errors.New("net down") }}
	res := testPortal().Login(context.Background(), d, workflowMember())

	require.Equal(t, StageRetry, res.Status)
	assert.True(t, IsRetryable(res.Err))
}

func TestSelectFormNoDataIsFatalNoShares(t *testing.T) {
	d := &fakeDriver{
		waitVisible: func(sel string) error {
			if sel == selCompanyList {
				return errors.New("timeout")
			}
			return nil
		},
		text: func(string) (string, error) { return "No Data Available", nil },
	}
	res := testPortal().SelectForm(context.Background(), d, workflowMember())

	require.Equal(t, StageFatal, res.Status)
	var biz *BusinessStateError
	require.True(t, errors.As(res.Err, &biz))
	assert.Equal(t, NoSharesAvailable, biz.Kind)
}

func TestSelectFormAlreadyApplied(t *testing.T) {
	d := &fakeDriver{eval: probeEval(issueProbe{Found: true, Applied: true, Company: "Sunrise Hydro"})}
	res := testPortal().SelectForm(context.Background(), d, workflowMember())

	require.Equal(t, StageFatal, res.Status)
	var biz *BusinessStateError
	require.True(t, errors.As(res.Err, &biz))
	assert.Equal(t, AlreadyApplied, biz.Kind)
	assert.Contains(t, biz.Message, "Sunrise Hydro")
}

func TestSelectFormOpensApplication(t *testing.T) {
	d := &fakeDriver{eval: probeEval(issueProbe{Found: true, Index: 2, Company: "Sunrise Hydro"})}
	res := testPortal().SelectForm(context.Background(), d, workflowMember())
	assert.Equal(t, StageOK, res.Status)
}

func TestSelectFormNoOpenIssue(t *testing.T) {
	d := &fakeDriver{eval: probeEval(issueProbe{Found: false})}
	res := testPortal().SelectForm(context.Background(), d, workflowMember())

	require.Equal(t, StageFatal, res.Status)
	var biz *BusinessStateError
	require.True(t, errors.As(res.Err, &biz))
	assert.Equal(t, NoSharesAvailable, biz.Kind)
}

func TestSelectDP(t *testing.T) {
	t.Run("participant present", func(t *testing.T) {
		d := &fakeDriver{}
		res := testPortal().SelectDP(context.Background(), d, workflowMember())
		assert.Equal(t, StageOK, res.Status)
	})

	t.Run("participant missing is configuration drift", func(t *testing.T) {
		d := &fakeDriver{selectByText: func(string, string) error { return errors.New("no option") }}
		res := testPortal().SelectDP(context.Background(), d, workflowMember())

		require.Equal(t, StageFatal, res.Status)
		var cfg *ConfigurationError
		require.True(t, errors.As(res.Err, &cfg))
	})

	t.Run("slow form is retryable", func(t *testing.T) {
		d := &fakeDriver{waitVisible: func(string) error { return errors.New("timeout") }}
		res := testPortal().SelectDP(context.Background(), d, workflowMember())
		assert.Equal(t, StageRetry, res.Status)
	})
}

func TestFillDetails(t *testing.T) {
	t.Run("fills kitta crn and pin", func(t *testing.T) {
		d := &fakeDriver{eval: probeEval(issueProbe{})}
		res := testPortal().FillDetails(context.Background(), d, workflowMember())

		require.Equal(t, StageOK, res.Status)
		assert.Equal(t, "10", d.filled[selKitta])
		assert.Equal(t, "02-R00123456", d.filled[selCRN])
		assert.Equal(t, "4321", d.filled[selPIN])
		assert.Contains(t, d.clicked, selDisclaimer)
		assert.Contains(t, d.clicked, selProceed)
	})

	t.Run("insufficient balance is fatal", func(t *testing.T) {
		d := &fakeDriver{
			eval: probeEval(issueProbe{}),
			text: func(string) (string, error) { return "You do not have sufficient balance", nil },
		}
		res := testPortal().FillDetails(context.Background(), d, workflowMember())

		require.Equal(t, StageFatal, res.Status)
		var cfg *ConfigurationError
		require.True(t, errors.As(res.Err, &cfg))
	})
}

func TestConfirmSubmit(t *testing.T) {
	t.Run("toast confirms", func(t *testing.T) {
		d := &fakeDriver{text: func(string) (string, error) {
			return "Share has been applied successfully.", nil
		}}
		res := testPortal().ConfirmSubmit(context.Background(), d, workflowMember())
		assert.Equal(t, StageOK, res.Status)
	})

	t.Run("re-rendered row confirms", func(t *testing.T) {
		d := &fakeDriver{eval: probeEval(issueProbe{Found: true, Applied: true})}
		res := testPortal().ConfirmSubmit(context.Background(), d, workflowMember())
		assert.Equal(t, StageOK, res.Status)
	})

	t.Run("already applied reported by portal", func(t *testing.T) {
		d := &fakeDriver{text: func(string) (string, error) { return "Already applied for this issue", nil }}
		res := testPortal().ConfirmSubmit(context.Background(), d, workflowMember())

		require.Equal(t, StageFatal, res.Status)
		var biz *BusinessStateError
		require.True(t, errors.As(res.Err, &biz))
		assert.Equal(t, AlreadyApplied, biz.Kind)
	})

	t.Run("no confirmation is indeterminate", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		d := &fakeDriver{}
		res := testPortal().ConfirmSubmit(ctx, d, workflowMember())

		require.Equal(t, StageFatal, res.Status)
		var ind *IndeterminateOutcomeError
		require.True(t, errors.As(res.Err, &ind))
	})
}

func TestFetchPortfolio(t *testing.T) {
	t.Run("reads holdings rows", func(t *testing.T) {
		d := &fakeDriver{eval: func(_ string, out any) error {
			if v, ok := out.(*[]Holding); ok {
				*v = []Holding{{Scrip: "NABIL", Balance: "50", LastPrice: "505.00", ValueAsOfLTP: "25,250.00"}}
			}
			return nil
		}}
		holdings, err := testPortal().FetchPortfolio(context.Background(), d)
		require.NoError(t, err)
		require.Len(t, holdings, 1)
		assert.Equal(t, "NABIL", holdings[0].Scrip)
	})

	t.Run("slow table is a retryable error", func(t *testing.T) {
		d := &fakeDriver{waitVisible: func(string) error { return errors.New("timeout") }}
		_, err := testPortal().FetchPortfolio(context.Background(), d)
		require.Error(t, err)
		assert.True(t, IsRetryable(err))
	})
}

func TestStagesOrder(t *testing.T) {
	stages := testPortal().Stages()
	require.Len(t, stages, 5)
	names := make([]string, 0, len(stages))
	for _, s := range stages {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"login", "select_form", "select_dp", "fill_details", "confirm_submit"}, names)
}

func TestFromError(t *testing.T) {
	assert.Equal(t, StageOK, FromError(nil).Status)
	assert.Equal(t, StageRetry, FromError(&TransientNavigationError{Op: "x"}).Status)
	assert.Equal(t, StageFatal, FromError(&AuthenticationError{}).Status)
	assert.Equal(t, StageFatal, FromError(errors.New("plain")).Status)
}
