package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mess-admin-go/internal/models"
)

func TestNewPeriod(t *testing.T) {
	p, err := NewPeriod("2", "2024")
	require.NoError(t, err)
	require.Equal(t, Period{Month: 2, Year: 2024}, p)
	require.True(t, p.Complete())

	p, err = NewPeriod("", " ")
	require.NoError(t, err)
	require.False(t, p.Complete())

	p, err = NewPeriod("3", "")
	require.NoError(t, err)
	require.Equal(t, Period{Month: 3}, p)
	require.False(t, p.Complete())

	for _, bad := range [][2]string{{"13", "2024"}, {"0", ""}, {"feb", ""}, {"", "-1"}} {
		_, err := NewPeriod(bad[0], bad[1])
		require.True(t, IsValidation(err), bad)
	}
}

func TestNewMemberFilter(t *testing.T) {
	f, err := NewMemberFilter(" asha ", "15days", "false")
	require.NoError(t, err)
	require.Equal(t, "asha", f.search)
	require.Equal(t, models.PlanFifteenDays, f.plan)
	require.NotNil(t, f.active)
	require.False(t, *f.active)

	f, err = NewMemberFilter("", "", "")
	require.NoError(t, err)
	require.Nil(t, f.active)

	_, err = NewMemberFilter("", "weekly", "")
	require.True(t, IsValidation(err))
	_, err = NewMemberFilter("", "", "yes")
	require.True(t, IsValidation(err))
}

func TestNewActivityFilter(t *testing.T) {
	f, err := NewActivityFilter("", "", 20)
	require.NoError(t, err)
	require.Equal(t, 20, f.limit)

	f, err = NewActivityFilter("500", "payment", 20)
	require.NoError(t, err)
	require.Equal(t, maxActivityLimit, f.limit)
	require.Equal(t, models.EntityPayment, f.entity)

	_, err = NewActivityFilter("0", "", 20)
	require.True(t, IsValidation(err))
	_, err = NewActivityFilter("", "invoice", 20)
	require.True(t, IsValidation(err))
}
