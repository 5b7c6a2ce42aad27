package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/roster --output domain/roster --outpkg rostermock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Source --dir ../domain/player --output domain/player --outpkg playermock --filename source_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Generator --dir ../domain/recommendation --output domain/recommendation --outpkg recommendationmock --filename generator_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Analyst --dir ../domain/recommendation --output domain/recommendation --outpkg recommendationmock --filename analyst_mock.go
