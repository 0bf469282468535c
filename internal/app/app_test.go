package app

import (
	"context"
	"errors"
	"testing"

	"github.com/ogurasousui/codex-payroll-clean-arch/internal/adapters/repository"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/core/auth"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/core/payroll"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/core/session"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/platform/config"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unreachable(context.Context, config.DatabaseConfig) (repository.Pool, error) {
	return nil, errors.New("connection refused")
}

func newSampleApp(t *testing.T) *App {
	t.Helper()

	a, err := New(context.Background(), &config.Config{}, unreachable, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func TestApp_AdminFlowOnSampleData(t *testing.T) {
	t.Parallel()

	a := newSampleApp(t)
	require.Equal(t, repository.ModeMemory, a.Backend.Mode)
	ctx := context.Background()

	sess, err := a.Authenticator.Login(ctx, "Admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, session.KindAdmin, sess.Kind())

	results, err := sess.SearchEmployees(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Salary.Equal(decimal.NewFromInt(90000)))

	count, err := sess.UpdateSalaryRange(ctx, payroll.Adjustment{
		Min:     decimal.NewFromInt(85000),
		Max:     decimal.NewFromInt(90001),
		Percent: decimal.NewFromFloat(3.5),
	})
	require.NoError(t, err)
	// Jane 85000, Alice 90000 88000 86000 85000
	assert.Equal(t, 5, count)

	_, err = sess.UpdateSalaryRange(ctx, payroll.Adjustment{Max: decimal.NewFromInt(10), Percent: decimal.NewFromInt(-150)})
	assert.ErrorIs(t, err, payroll.ErrInvalidPercent)

	rows, err := sess.DivisionReport(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	sess.Logout()
	_, err = sess.JobTitleReport(ctx)
	assert.ErrorIs(t, err, session.ErrLoggedOut)
}

func TestApp_EmployeeFlowOnSampleData(t *testing.T) {
	t.Parallel()

	a := newSampleApp(t)
	ctx := context.Background()

	sess, err := a.Authenticator.Login(ctx, "employee", "emp123")
	require.NoError(t, err)
	assert.Equal(t, session.KindEmployee, sess.Kind())

	history, err := sess.PayHistory(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 4)

	_, err = sess.SearchEmployees(ctx, "john")
	assert.ErrorIs(t, err, session.ErrForbidden)
}

func TestApp_RejectsBadCredentials(t *testing.T) {
	t.Parallel()

	a := newSampleApp(t)

	for _, creds := range [][2]string{{"admin", "nope"}, {"", "admin123"}, {"admin", "   "}} {
		_, err := a.Authenticator.Login(context.Background(), creds[0], creds[1])
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials, creds[0])
	}
}
