package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/consultancy-scheduler/internal/models"
)

func TestRegisterAccount_DuplicateEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()

	account := models.Account{
		Email:        "alice@example.com",
		FullName:     "Alice",
		PasswordHash: "hashedpassword",
		IsActive:     true,
	}
	id, err := storage.RegisterAccount(ctx, account)
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	// Почта занята без учёта регистра.
	account.Email = "ALICE@example.com"
	_, err = storage.RegisterAccount(ctx, account)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	got, err := storage.GetAccountByEmail(ctx, "Alice@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	_, err = storage.GetAccountByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAppointment_SlotConflict(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	firstAccount := factory.CreateAccount(t)
	secondAccount := factory.CreateAccount(t)

	appointment := GetTestAppointment(firstAccount)
	id, err := storage.CreateAppointment(ctx, appointment)
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	// Календарь общий: пересечение конфликтует и между разными аккаунтами.
	overlapping := GetTestAppointment(secondAccount)
	overlapping.StartTime = appointment.StartTime.Add(30 * time.Minute)
	overlapping.EndTime = overlapping.StartTime.Add(time.Hour)
	_, err = storage.CreateAppointment(ctx, overlapping)
	assert.ErrorIs(t, err, ErrSlotTaken)

	// Интервалы полуоткрытые: слот, начинающийся ровно в конец предыдущего, свободен.
	backToBack := GetTestAppointment(secondAccount)
	backToBack.StartTime = appointment.EndTime
	backToBack.EndTime = backToBack.StartTime.Add(time.Hour)
	_, err = storage.CreateAppointment(ctx, backToBack)
	assert.NoError(t, err)
}

func TestCreateAppointment_CancelledSlotRebookable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)

	accountID := factory.CreateAccount(t)
	appointment := GetTestAppointment(accountID)
	id, err := storage.CreateAppointment(ctx, appointment)
	require.NoError(t, err)

	err = storage.UpdateAppointmentStatus(ctx, id, accountID, models.StatusCancelled)
	require.NoError(t, err)
	verify.VerifyAppointmentStatus(t, id, models.StatusCancelled)

	// Отменённая запись освобождает свой интервал.
	rebooked := GetTestAppointment(accountID)
	_, err = storage.CreateAppointment(ctx, rebooked)
	assert.NoError(t, err)
	verify.VerifyAppointmentCount(t, accountID, 2)
}

func TestCreateAppointment_ConcurrentSameSlot(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	firstAccount := factory.CreateAccount(t)
	secondAccount := factory.CreateAccount(t)

	// Два конкурентных создания одного слота: успешным будет ровно одно.
	results := make(chan error, 2)
	for _, accountID := range []int64{firstAccount, secondAccount} {
		go func(accountID int64) {
			_, err := storage.CreateAppointment(ctx, GetTestAppointment(accountID))
			results <- err
		}(accountID)
	}

	var success, conflict int
	for range 2 {
		err := <-results
		switch {
		case err == nil:
			success++
		default:
			assert.ErrorIs(t, err, ErrSlotTaken)
			conflict++
		}
	}
	assert.Equal(t, 1, success)
	assert.Equal(t, 1, conflict)
}

func TestReadAppointment_OwnershipIsolation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	ownerID := factory.CreateAccount(t)
	strangerID := factory.CreateAccount(t)

	id, err := storage.CreateAppointment(ctx, GetTestAppointment(ownerID))
	require.NoError(t, err)

	got, err := storage.ReadAppointment(ctx, id, ownerID)
	require.NoError(t, err)
	assert.Equal(t, ownerID, got.AccountID)

	// Чужая запись неотличима от несуществующей.
	_, err = storage.ReadAppointment(ctx, id, strangerID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = storage.ReadAppointment(ctx, 999999, ownerID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateAppointment_ExcludesSelfFromConflict(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	accountID := factory.CreateAccount(t)
	appointment := GetTestAppointment(accountID)
	id, err := storage.CreateAppointment(ctx, appointment)
	require.NoError(t, err)

	// Сдвиг внутри собственного интервала не конфликтует сам с собой.
	appointment.ID = id
	appointment.StartTime = appointment.StartTime.Add(15 * time.Minute)
	appointment.EndTime = appointment.StartTime.Add(time.Hour)
	err = storage.UpdateAppointment(ctx, appointment, true)
	assert.NoError(t, err)

	// Перенос на интервал другой записи конфликтует.
	other := GetTestAppointment(accountID)
	other.StartTime = appointment.EndTime.Add(time.Hour)
	other.EndTime = other.StartTime.Add(time.Hour)
	otherID, err := storage.CreateAppointment(ctx, other)
	require.NoError(t, err)

	appointment.StartTime = other.StartTime.Add(15 * time.Minute)
	appointment.EndTime = appointment.StartTime.Add(time.Hour)
	err = storage.UpdateAppointment(ctx, appointment, true)
	assert.ErrorIs(t, err, ErrSlotTaken)

	// Обновление чужой записи невозможно.
	strangerID := factory.CreateAccount(t)
	stranger := appointment
	stranger.ID = otherID
	stranger.AccountID = strangerID
	stranger.StartTime = other.EndTime.Add(time.Hour)
	stranger.EndTime = stranger.StartTime.Add(time.Hour)
	err = storage.UpdateAppointment(ctx, stranger, false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListAppointmentsByAccount_OrderedByStart(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	accountID := factory.CreateAccount(t)
	otherID := factory.CreateAccount(t)
	base := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)

	// Вставляем в обратном порядке, ждём сортировку по возрастанию.
	factory.CreateAppointment(t, accountID, "Standard Session",
		base.Add(4*time.Hour), base.Add(5*time.Hour), models.StatusRequested)
	factory.CreateAppointment(t, accountID, "Initial Consultation",
		base, base.Add(30*time.Minute), models.StatusRequested)
	factory.CreateAppointment(t, accountID, "Online Meeting",
		base.Add(2*time.Hour), base.Add(2*time.Hour+45*time.Minute), models.StatusCancelled)
	factory.CreateAppointment(t, otherID, "Standard Session",
		base.Add(6*time.Hour), base.Add(7*time.Hour), models.StatusRequested)

	list, err := storage.ListAppointmentsByAccount(ctx, accountID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Initial Consultation", list[0].ServiceName)
	assert.Equal(t, "Online Meeting", list[1].ServiceName)
	assert.Equal(t, "Standard Session", list[2].ServiceName)
	for _, a := range list {
		assert.Equal(t, accountID, a.AccountID)
	}
}

func TestCompleteElapsedAppointments(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)

	accountID := factory.CreateAccount(t)
	past := time.Now().UTC().Add(-2 * time.Hour).Truncate(time.Second)
	future := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)

	elapsedID := factory.CreateAppointment(t, accountID, "Standard Session",
		past, past.Add(time.Hour), models.StatusRequested)
	cancelledID := factory.CreateAppointment(t, accountID, "Standard Session",
		past.Add(-3*time.Hour), past.Add(-2*time.Hour), models.StatusCancelled)
	upcomingID := factory.CreateAppointment(t, accountID, "Standard Session",
		future, future.Add(time.Hour), models.StatusRequested)

	affected, err := storage.CompleteElapsedAppointments(ctx, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	verify.VerifyAppointmentStatus(t, elapsedID, models.StatusCompleted)
	verify.VerifyAppointmentStatus(t, cancelledID, models.StatusCancelled)
	verify.VerifyAppointmentStatus(t, upcomingID, models.StatusRequested)
}
