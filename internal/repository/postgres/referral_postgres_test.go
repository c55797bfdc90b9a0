package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hausmeister/internal/model"
	"hausmeister/internal/repository"
)

var referralCodeCols = []string{
	"id", "user_id", "app_id", "code", "stripe_coupon_id", "stripe_promotion_code_id",
	"discount_percent", "is_active", "created_at",
}

func TestReferralPostgres_FindCodeByUserApp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReferralPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM referral_codes WHERE user_id = \\$1 AND app_id = \\$2").
		WithArgs("user-1", "hausmeisterpro").
		WillReturnRows(sqlmock.NewRows(referralCodeCols).
			AddRow("code-1", "user-1", "hausmeisterpro", "ABCD2345", nil, nil, 20, true, time.Now()))

	c, err := repo.FindCodeByUserApp(ctx, "user-1", "hausmeisterpro")
	require.NoError(t, err)
	assert.Equal(t, "ABCD2345", c.Code)
	assert.Nil(t, c.StripeCouponID)

	mock.ExpectQuery("SELECT (.+) FROM referral_codes WHERE code = \\$1 AND is_active = true").
		WithArgs("GONE2345").
		WillReturnRows(sqlmock.NewRows(referralCodeCols))

	_, err = repo.FindActiveCode(ctx, "GONE2345")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralPostgres_CodeExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReferralPostgres(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("ABCD2345").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.CodeExists(context.Background(), "ABCD2345")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralPostgres_CreateCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReferralPostgres(db)
	now := time.Now()
	in := &model.ReferralCode{
		ID:              "code-1",
		UserID:          "user-1",
		AppID:           "hausmeisterpro",
		Code:            "ABCD2345",
		DiscountPercent: 20,
		IsActive:        true,
	}

	mock.ExpectQuery(`INSERT INTO referral_codes (.+) VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8\)`).
		WithArgs("code-1", "user-1", "hausmeisterpro", "ABCD2345", nil, nil, 20, true).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	out, err := repo.CreateCode(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, now, out.CreatedAt)
	assert.Equal(t, "ABCD2345", out.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralPostgres_CreateConversion(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReferralPostgres(db)

	mock.ExpectExec("INSERT INTO referral_conversions").
		WithArgs("conv-1", "code-1", "hausmeisterpro", "clicked", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.CreateConversion(context.Background(), &model.ReferralConversion{
		ID:             "conv-1",
		ReferralCodeID: "code-1",
		AppID:          "hausmeisterpro",
		Status:         model.ConversionClicked,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralPostgres_ListConversions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReferralPostgres(db)
	ctx := context.Background()

	t.Run("expands the id list", func(t *testing.T) {
		mock.ExpectQuery(`FROM referral_conversions WHERE referral_code_id IN \(\$1, \$2\)`).
			WithArgs("code-1", "code-2").
			WillReturnRows(sqlmock.NewRows([]string{"id", "referral_code_id", "app_id", "status", "amount_saved", "created_at"}).
				AddRow("conv-1", "code-1", "hausmeisterpro", "clicked", nil, time.Now()).
				AddRow("conv-2", "code-2", "hausmeisterpro", "converted", 12.5, time.Now()))

		convs, err := repo.ListConversions(ctx, []string{"code-1", "code-2"})

		require.NoError(t, err)
		require.Len(t, convs, 2)
		assert.Nil(t, convs[0].AmountSaved)
		assert.Equal(t, 12.5, *convs[1].AmountSaved)
	})

	t.Run("no codes skips the query", func(t *testing.T) {
		convs, err := repo.ListConversions(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, convs)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralPostgres_ListCodesByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReferralPostgres(db)

	mock.ExpectQuery("SELECT (.+) FROM referral_codes WHERE user_id = ").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(referralCodeCols))

	codes, err := repo.ListCodesByUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, codes)
	assert.NotNil(t, codes)
	assert.NoError(t, mock.ExpectationsWereMet())
}
