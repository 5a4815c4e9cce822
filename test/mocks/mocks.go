// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's interfaces.
// To regenerate mocks, run `make mocks` from the root directory.
package mocks

//go:generate mockgen -source=../../internal/core/ports/inventory_repository.go -destination=inventory_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/inventory_service.go -destination=inventory_service_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/blobstore.go -destination=blobstore_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/cache.go -destination=cache_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/image_store.go -destination=image_store_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/payments.go -destination=payments_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/suggester.go -destination=suggester_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/services/inventory.go -destination=task_enqueuer_mock.go -package=mocks TaskEnqueuer
