package app

import (
	"fmt"

	contractRepository "github.com/contractflow/contractflow/internal/contract/repository"
	contractUsecase "github.com/contractflow/contractflow/internal/contract/usecase"
	settingsRepository "github.com/contractflow/contractflow/internal/settings/repository"
	settingsUsecase "github.com/contractflow/contractflow/internal/settings/usecase"
	webhookUsecase "github.com/contractflow/contractflow/internal/webhook/usecase"
)

// ContractRepository returns the contract repository instance.
func (c *Container) ContractRepository() (contractUsecase.ContractRepository, error) {
	var err error
	c.contractRepoInit.Do(func() {
		db, dbErr := c.DB()
		if dbErr != nil {
			err = dbErr
			c.initErrors["contractRepo"] = dbErr
			return
		}
		c.contractRepo = contractRepository.NewPostgreSQLContractRepository(db)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["contractRepo"]; exists {
		return nil, storedErr
	}
	return c.contractRepo, nil
}

// StatusHistoryRepository returns the status history repository instance.
func (c *Container) StatusHistoryRepository() (contractUsecase.StatusHistoryRepository, error) {
	var err error
	c.historyRepoInit.Do(func() {
		db, dbErr := c.DB()
		if dbErr != nil {
			err = dbErr
			c.initErrors["historyRepo"] = dbErr
			return
		}
		c.historyRepo = contractRepository.NewPostgreSQLStatusHistoryRepository(db)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["historyRepo"]; exists {
		return nil, storedErr
	}
	return c.historyRepo, nil
}

// ContractUseCase returns the contract use case instance.
func (c *Container) ContractUseCase() (contractUsecase.UseCase, error) {
	var err error
	c.contractUseCaseInit.Do(func() {
		c.contractUseCase, err = c.initContractUseCase()
		if err != nil {
			c.initErrors["contractUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["contractUseCase"]; exists {
		return nil, storedErr
	}
	return c.contractUseCase, nil
}

// SettingsRepository returns the settings repository instance.
func (c *Container) SettingsRepository() (settingsUsecase.SettingsRepository, error) {
	var err error
	c.settingsRepoInit.Do(func() {
		db, dbErr := c.DB()
		if dbErr != nil {
			err = dbErr
			c.initErrors["settingsRepo"] = dbErr
			return
		}
		c.settingsRepo = settingsRepository.NewPostgreSQLSettingsRepository(db)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["settingsRepo"]; exists {
		return nil, storedErr
	}
	return c.settingsRepo, nil
}

// SettingsUseCase returns the operational settings use case instance.
func (c *Container) SettingsUseCase() (settingsUsecase.UseCase, error) {
	var err error
	c.settingsUseCaseInit.Do(func() {
		repo, repoErr := c.SettingsRepository()
		if repoErr != nil {
			err = fmt.Errorf("failed to get settings repository for settings use case: %w", repoErr)
			c.initErrors["settingsUseCase"] = err
			return
		}
		c.settingsUseCase = settingsUsecase.NewSettingsUseCase(repo)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["settingsUseCase"]; exists {
		return nil, storedErr
	}
	return c.settingsUseCase, nil
}

// WebhookUseCase returns the signature webhook processor instance.
func (c *Container) WebhookUseCase() (webhookUsecase.UseCase, error) {
	var err error
	c.webhookUseCaseInit.Do(func() {
		contracts, ucErr := c.ContractUseCase()
		if ucErr != nil {
			err = fmt.Errorf("failed to get contract use case for webhook use case: %w", ucErr)
			c.initErrors["webhookUseCase"] = err
			return
		}
		c.webhookUseCase = webhookUsecase.NewProcessorUseCase(contracts, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["webhookUseCase"]; exists {
		return nil, storedErr
	}
	return c.webhookUseCase, nil
}

// initContractUseCase creates the contract use case with all its dependencies.
func (c *Container) initContractUseCase() (contractUsecase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for contract use case: %w", err)
	}

	contractRepo, err := c.ContractRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get contract repository for contract use case: %w", err)
	}

	historyRepo, err := c.StatusHistoryRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get history repository for contract use case: %w", err)
	}

	bus, err := c.EventBus()
	if err != nil {
		return nil, fmt.Errorf("failed to get event bus for contract use case: %w", err)
	}

	return contractUsecase.NewContractUseCase(txManager, contractRepo, historyRepo, bus), nil
}
