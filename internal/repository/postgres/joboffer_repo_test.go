package postgres_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devhire/backend/internal/domain"
	"github.com/devhire/backend/internal/repository/postgres"
	"github.com/devhire/backend/internal/testutil"
)

// Racing applications for the same offer must collapse into a single
// row, with exactly one caller told it inserted.
func TestJobOfferRepository_AddApplicant_Race(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	recruiter, _ := testutil.NewUserBuilder().WithRole(domain.RoleRecruiter).Build(t, testDB.DB)
	applicant, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	offer := testutil.NewJobOfferBuilder(recruiter.ID).Build(t, testDB.DB)

	const attempts = 8
	inserted := make([]bool, attempts)
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			inserted[i], errs[i] = repos.JobOffer.AddApplicant(ctx, offer.ID, applicant.ID)
		}(i)
	}
	wg.Wait()

	insertCount := 0
	for i := 0; i < attempts; i++ {
		require.NoError(t, errs[i])
		if inserted[i] {
			insertCount++
		}
	}
	assert.Equal(t, 1, insertCount)

	applicants, err := repos.JobOffer.GetApplicants(ctx, offer.ID)
	require.NoError(t, err)
	assert.Len(t, applicants, 1)
}

func TestJobOfferRepository_ToggleFavorite(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	recruiter, _ := testutil.NewUserBuilder().WithRole(domain.RoleRecruiter).Build(t, testDB.DB)
	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	offer := testutil.NewJobOfferBuilder(recruiter.ID).Build(t, testDB.DB)

	favorited, err := repos.JobOffer.ToggleFavorite(ctx, offer.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, favorited)

	favorited, err = repos.JobOffer.ToggleFavorite(ctx, offer.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, favorited)

	var count int64
	require.NoError(t, testDB.DB.Model(&domain.Favorite{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestJobOfferRepository_DeleteRemovesDependents(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	recruiter, _ := testutil.NewUserBuilder().WithRole(domain.RoleRecruiter).Build(t, testDB.DB)
	applicant, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	offer := testutil.NewJobOfferBuilder(recruiter.ID).Build(t, testDB.DB)

	_, err := repos.JobOffer.AddApplicant(ctx, offer.ID, applicant.ID)
	require.NoError(t, err)
	_, err = repos.JobOffer.ToggleFavorite(ctx, offer.ID, applicant.ID)
	require.NoError(t, err)

	require.NoError(t, repos.JobOffer.Delete(ctx, offer.ID))

	var applicants, favorites int64
	require.NoError(t, testDB.DB.Model(&domain.Applicant{}).Count(&applicants).Error)
	require.NoError(t, testDB.DB.Model(&domain.Favorite{}).Count(&favorites).Error)
	assert.Zero(t, applicants)
	assert.Zero(t, favorites)
}
