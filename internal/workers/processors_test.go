// internal/workers/processors_test.go
package workers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/elikagan/objectlesson-api/internal/workers"
	"github.com/elikagan/objectlesson-api/test/helpers"
	"github.com/elikagan/objectlesson-api/test/mocks"
)

func TestNotificationProcessor_SendSMS(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers the queued body", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sender := mocks.NewMockSMSSender(ctrl)
		p := workers.NewNotificationProcessor(sender, helpers.TestLogger())

		task, err := workers.NewSMSTask("Sale: Paper Lantern (A000001) — $240.00")
		require.NoError(t, err)

		sender.EXPECT().Send(gomock.Any(), "Sale: Paper Lantern (A000001) — $240.00").Return(nil)
		assert.NoError(t, p.SendSMS(ctx, task))
	})

	t.Run("send failure is returned so asynq retries", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sender := mocks.NewMockSMSSender(ctrl)
		p := workers.NewNotificationProcessor(sender, helpers.TestLogger())

		task, err := workers.NewSMSTask("Sale alert")
		require.NoError(t, err)

		sender.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("twilio 503"))
		assert.Error(t, p.SendSMS(ctx, task))
	})

	t.Run("unparseable payload is an error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sender := mocks.NewMockSMSSender(ctrl)
		p := workers.NewNotificationProcessor(sender, helpers.TestLogger())

		task := asynq.NewTask(workers.TypeSendSMS, []byte("not json"))
		assert.Error(t, p.SendSMS(ctx, task))
	})
}

func TestCleanupProcessor_CleanupImages(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes every key in the payload", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		images := mocks.NewMockImageStore(ctrl)
		p := workers.NewCleanupProcessor(images, helpers.TestLogger())

		task, err := workers.NewImageCleanupTask("000001", []string{
			"products/000001/main.jpg",
			"products/000001/detail.jpg",
		})
		require.NoError(t, err)

		images.EXPECT().Delete(gomock.Any(), "products/000001/main.jpg").Return(nil)
		images.EXPECT().Delete(gomock.Any(), "products/000001/detail.jpg").Return(nil)
		assert.NoError(t, p.CleanupImages(ctx, task))
	})

	t.Run("a lingering failure reports an error for retry", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		images := mocks.NewMockImageStore(ctrl)
		p := workers.NewCleanupProcessor(images, helpers.TestLogger())

		task, err := workers.NewImageCleanupTask("000001", []string{
			"products/000001/main.jpg",
			"products/000001/detail.jpg",
		})
		require.NoError(t, err)

		images.EXPECT().Delete(gomock.Any(), "products/000001/main.jpg").Return(nil)
		images.EXPECT().Delete(gomock.Any(), "products/000001/detail.jpg").
			Return(errors.New("s3 unavailable"))

		err = p.CleanupImages(ctx, task)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 2")
	})
}
