package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type decideFixture struct {
	sales    *MockSaleRepository
	leads    *MockLeadRepository
	products *MockProductRepository
	users    *MockUserRepository
	rules    *MockRuleRepository
	uc       *DecideSaleUseCase
}

// Cenário padrão do fluxo: lead do SDR S1, venda de R$ 2.000,00 do closer C1,
// produto com default SDR 1% / Closer 5%.
func newDecideFixture(t *testing.T) *decideFixture {
	t.Helper()

	f := &decideFixture{
		sales:    new(MockSaleRepository),
		leads:    new(MockLeadRepository),
		products: new(MockProductRepository),
		users:    new(MockUserRepository),
		rules:    new(MockRuleRepository),
	}
	f.uc = NewDecideSaleUseCase(f.sales, f.leads, f.products, f.users, f.rules, nil)

	f.users.On("FindByID", mock.Anything, "admin-1").
		Return(&entity.User{ID: "admin-1", Name: "Ana", Role: entity.UserRoleAdmin, Active: true}, nil)

	return f
}

func pendingSale() *entity.Sale {
	return &entity.Sale{
		ID:             "sale-1",
		LeadID:         "lead-1",
		CloserID:       "C1",
		ProductID:      "prod-1",
		ValueCents:     200000,
		Outcome:        entity.OutcomeSale,
		ApprovalStatus: entity.ApprovalPending,
	}
}

func saleProduct() *entity.Product {
	return &entity.Product{
		ID:            "prod-1",
		Name:          "Consultoria",
		Active:        true,
		SDRPercent:    1,
		CloserPercent: 5,
	}
}

func TestApproveCreatesOneCommissionPerRecipient(t *testing.T) {
	ctx := context.Background()
	f := newDecideFixture(t)

	f.sales.On("FindByID", ctx, "sale-1").Return(pendingSale(), nil)
	f.leads.On("FindByID", ctx, "lead-1").
		Return(&entity.Lead{ID: "lead-1", Name: "Maria", Phone: "11", SDRID: "S1", Status: entity.LeadStatusPendingApproval}, nil)
	f.products.On("FindByID", ctx, "prod-1").Return(saleProduct(), nil)
	f.rules.On("ActiveRules", ctx, "prod-1").Return([]entity.CommissionRule{}, nil)

	var captured DecisionWrites
	f.sales.On("ApplyDecision", ctx, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		captured = args.Get(1).(DecisionWrites)
	})

	output, err := f.uc.Execute(ctx, DecideSaleInput{SaleID: "sale-1", AdminID: "admin-1", Action: ActionApprove})

	assert.NoError(t, err)
	assert.Equal(t, entity.ApprovalApproved, output.ApprovalStatus)
	assert.Equal(t, entity.LeadStatusConverted, output.LeadStatus)

	// venda fechada + lead convertido + exatamente uma comissão por papel,
	// tudo na mesma escrita atômica
	assert.Equal(t, entity.ApprovalApproved, captured.Sale.ApprovalStatus)
	assert.Equal(t, "admin-1", captured.Sale.ApprovedBy)
	assert.NotNil(t, captured.Sale.DecidedAt)
	assert.Equal(t, entity.LeadStatusConverted, captured.LeadStatus)
	assert.Len(t, captured.Commissions, 2)

	byRole := map[string]*entity.Commission{}
	for _, c := range captured.Commissions {
		byRole[c.RecipientRole] = c
	}
	// R$ 2.000,00: SDR 1% = R$ 20,00 | Closer 5% = R$ 100,00
	assert.Equal(t, "S1", byRole[entity.RoleSDR].RecipientID)
	assert.Equal(t, int64(2000), byRole[entity.RoleSDR].AmountCents)
	assert.Equal(t, 1.0, byRole[entity.RoleSDR].Percent)
	assert.Equal(t, "C1", byRole[entity.RoleCloser].RecipientID)
	assert.Equal(t, int64(10000), byRole[entity.RoleCloser].AmountCents)
	assert.Equal(t, entity.CommissionPending, byRole[entity.RoleCloser].Status)
}

func TestApproveLeadWithoutSDRSkipsSDRCommission(t *testing.T) {
	ctx := context.Background()
	f := newDecideFixture(t)

	f.sales.On("FindByID", ctx, "sale-1").Return(pendingSale(), nil)
	f.leads.On("FindByID", ctx, "lead-1").
		Return(&entity.Lead{ID: "lead-1", Name: "Maria", Phone: "11", SDRID: "", Status: entity.LeadStatusPendingApproval}, nil)
	f.products.On("FindByID", ctx, "prod-1").Return(saleProduct(), nil)
	f.rules.On("ActiveRules", ctx, "prod-1").Return([]entity.CommissionRule{}, nil)

	var captured DecisionWrites
	f.sales.On("ApplyDecision", ctx, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		captured = args.Get(1).(DecisionWrites)
	})

	_, err := f.uc.Execute(ctx, DecideSaleInput{SaleID: "sale-1", AdminID: "admin-1", Action: ActionApprove})

	assert.NoError(t, err)
	assert.Len(t, captured.Commissions, 1)
	assert.Equal(t, entity.RoleCloser, captured.Commissions[0].RecipientRole)
	assert.Equal(t, int64(10000), captured.Commissions[0].AmountCents)
}

func TestApproveZeroPercentSkipsCommission(t *testing.T) {
	ctx := context.Background()
	f := newDecideFixture(t)

	product := saleProduct()
	product.SDRPercent = 0

	f.sales.On("FindByID", ctx, "sale-1").Return(pendingSale(), nil)
	f.leads.On("FindByID", ctx, "lead-1").
		Return(&entity.Lead{ID: "lead-1", Name: "Maria", Phone: "11", SDRID: "S1", Status: entity.LeadStatusPendingApproval}, nil)
	f.products.On("FindByID", ctx, "prod-1").Return(product, nil)
	f.rules.On("ActiveRules", ctx, "prod-1").Return([]entity.CommissionRule{}, nil)

	var captured DecisionWrites
	f.sales.On("ApplyDecision", ctx, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		captured = args.Get(1).(DecisionWrites)
	})

	_, err := f.uc.Execute(ctx, DecideSaleInput{SaleID: "sale-1", AdminID: "admin-1", Action: ActionApprove})

	assert.NoError(t, err)
	assert.Len(t, captured.Commissions, 1)
	assert.Equal(t, entity.RoleCloser, captured.Commissions[0].RecipientRole)
}

func TestApproveWithProductOverride(t *testing.T) {
	ctx := context.Background()
	f := newDecideFixture(t)

	override := &entity.Product{ID: "prod-2", Name: "Premium", Active: true, SDRPercent: 2, CloserPercent: 10}

	f.sales.On("FindByID", ctx, "sale-1").Return(pendingSale(), nil)
	f.leads.On("FindByID", ctx, "lead-1").
		Return(&entity.Lead{ID: "lead-1", Name: "Maria", Phone: "11", SDRID: "S1", Status: entity.LeadStatusPendingApproval}, nil)
	f.products.On("FindByID", ctx, "prod-2").Return(override, nil)
	f.rules.On("ActiveRules", ctx, "prod-2").Return([]entity.CommissionRule{}, nil)

	var captured DecisionWrites
	f.sales.On("ApplyDecision", ctx, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		captured = args.Get(1).(DecisionWrites)
	})

	_, err := f.uc.Execute(ctx, DecideSaleInput{
		SaleID: "sale-1", AdminID: "admin-1", Action: ActionApprove, OverrideProductID: "prod-2",
	})

	assert.NoError(t, err)
	byRole := map[string]int64{}
	for _, c := range captured.Commissions {
		byRole[c.RecipientRole] = c.AmountCents
	}
	assert.Equal(t, int64(4000), byRole[entity.RoleSDR])     // 2% de R$ 2.000
	assert.Equal(t, int64(20000), byRole[entity.RoleCloser]) // 10% de R$ 2.000
}

func TestRejectHasNoCommissionSideEffects(t *testing.T) {
	ctx := context.Background()
	f := newDecideFixture(t)

	f.sales.On("FindByID", ctx, "sale-1").Return(pendingSale(), nil)

	var captured DecisionWrites
	f.sales.On("ApplyDecision", ctx, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		captured = args.Get(1).(DecisionWrites)
	})

	output, err := f.uc.Execute(ctx, DecideSaleInput{SaleID: "sale-1", AdminID: "admin-1", Action: ActionReject})

	assert.NoError(t, err)
	assert.Equal(t, entity.ApprovalRejected, output.ApprovalStatus)
	assert.Empty(t, output.Commissions)

	// rejeição não toca lead nem cria comissão
	assert.Equal(t, "", captured.LeadStatus)
	assert.Empty(t, captured.Commissions)
	f.leads.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	f.rules.AssertNotCalled(t, "ActiveRules", mock.Anything, mock.Anything)
}

func TestDecideAlreadyDecided(t *testing.T) {
	ctx := context.Background()
	f := newDecideFixture(t)

	decided := pendingSale()
	decided.ApprovalStatus = entity.ApprovalApproved
	f.sales.On("FindByID", ctx, "sale-1").Return(decided, nil)

	_, err := f.uc.Execute(ctx, DecideSaleInput{SaleID: "sale-1", AdminID: "admin-1", Action: ActionApprove})

	assert.Equal(t, CodeAlreadyDecided, ErrCode(err))
	f.sales.AssertNotCalled(t, "ApplyDecision", mock.Anything, mock.Anything)
}

func TestDecideTwiceIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newDecideFixture(t)

	sale := pendingSale()
	f.sales.On("FindByID", ctx, "sale-1").Return(sale, nil)
	f.leads.On("FindByID", ctx, "lead-1").
		Return(&entity.Lead{ID: "lead-1", Name: "Maria", Phone: "11", SDRID: "S1", Status: entity.LeadStatusPendingApproval}, nil)
	f.products.On("FindByID", ctx, "prod-1").Return(saleProduct(), nil)
	f.rules.On("ActiveRules", ctx, "prod-1").Return([]entity.CommissionRule{}, nil)
	f.sales.On("ApplyDecision", ctx, mock.Anything).Return(nil)

	_, err := f.uc.Execute(ctx, DecideSaleInput{SaleID: "sale-1", AdminID: "admin-1", Action: ActionApprove})
	assert.NoError(t, err)

	// segunda chamada encontra a venda já aprovada
	_, err = f.uc.Execute(ctx, DecideSaleInput{SaleID: "sale-1", AdminID: "admin-1", Action: ActionApprove})
	assert.Equal(t, CodeAlreadyDecided, ErrCode(err))

	f.sales.AssertNumberOfCalls(t, "ApplyDecision", 1)
}

func TestDecideRaceLostMapsToAlreadyDecided(t *testing.T) {
	ctx := context.Background()
	f := newDecideFixture(t)

	f.sales.On("FindByID", ctx, "sale-1").Return(pendingSale(), nil)
	f.leads.On("FindByID", ctx, "lead-1").
		Return(&entity.Lead{ID: "lead-1", Name: "Maria", Phone: "11", Status: entity.LeadStatusPendingApproval}, nil)
	f.products.On("FindByID", ctx, "prod-1").Return(saleProduct(), nil)
	f.rules.On("ActiveRules", ctx, "prod-1").Return([]entity.CommissionRule{}, nil)
	// o CAS no banco perdeu para outra decisão concorrente
	f.sales.On("ApplyDecision", ctx, mock.Anything).Return(entity.ErrSaleAlreadyDecided)

	_, err := f.uc.Execute(ctx, DecideSaleInput{SaleID: "sale-1", AdminID: "admin-1", Action: ActionApprove})

	assert.Equal(t, CodeAlreadyDecided, ErrCode(err))
}

func TestDecidePersistenceFailureAbortsWhole(t *testing.T) {
	ctx := context.Background()
	f := newDecideFixture(t)

	producer := new(MockQueueProducer)
	f.uc.Queue = producer

	f.sales.On("FindByID", ctx, "sale-1").Return(pendingSale(), nil)
	f.leads.On("FindByID", ctx, "lead-1").
		Return(&entity.Lead{ID: "lead-1", Name: "Maria", Phone: "11", SDRID: "S1", Status: entity.LeadStatusPendingApproval}, nil)
	f.products.On("FindByID", ctx, "prod-1").Return(saleProduct(), nil)
	f.rules.On("ActiveRules", ctx, "prod-1").Return([]entity.CommissionRule{}, nil)
	f.sales.On("ApplyDecision", ctx, mock.Anything).Return(errors.New("deadlock detected"))

	_, err := f.uc.Execute(ctx, DecideSaleInput{SaleID: "sale-1", AdminID: "admin-1", Action: ActionApprove})

	// falha de storage sobe como PERSISTENCE_FAILURE, nada é publicado
	assert.Equal(t, CodePersistence, ErrCode(err))
	producer.AssertNotCalled(t, "PublishSaleApproved", mock.Anything, mock.Anything)
}

func TestDecideSaleNotFound(t *testing.T) {
	ctx := context.Background()
	f := newDecideFixture(t)

	f.sales.On("FindByID", ctx, "missing").Return(nil, nil)

	_, err := f.uc.Execute(ctx, DecideSaleInput{SaleID: "missing", AdminID: "admin-1", Action: ActionApprove})

	assert.Equal(t, CodeNotFound, ErrCode(err))
}

func TestDecideRequiresAdminRole(t *testing.T) {
	ctx := context.Background()
	f := newDecideFixture(t)

	f.users.On("FindByID", ctx, "closer-1").
		Return(&entity.User{ID: "closer-1", Role: entity.UserRoleCloser, Active: true}, nil)

	_, err := f.uc.Execute(ctx, DecideSaleInput{SaleID: "sale-1", AdminID: "closer-1", Action: ActionApprove})

	assert.Equal(t, CodeValidation, ErrCode(err))
	f.sales.AssertNotCalled(t, "ApplyDecision", mock.Anything, mock.Anything)
}

func TestDecideUnknownAction(t *testing.T) {
	ctx := context.Background()
	f := newDecideFixture(t)

	_, err := f.uc.Execute(ctx, DecideSaleInput{SaleID: "sale-1", AdminID: "admin-1", Action: "maybe"})

	assert.Equal(t, CodeValidation, ErrCode(err))
}

func TestApprovePublishesFrozenCommissions(t *testing.T) {
	ctx := context.Background()
	f := newDecideFixture(t)

	producer := new(MockQueueProducer)
	f.uc.Queue = producer

	f.sales.On("FindByID", ctx, "sale-1").Return(pendingSale(), nil)
	f.leads.On("FindByID", ctx, "lead-1").
		Return(&entity.Lead{ID: "lead-1", Name: "Maria", Phone: "11", SDRID: "S1", Status: entity.LeadStatusPendingApproval}, nil)
	f.products.On("FindByID", ctx, "prod-1").Return(saleProduct(), nil)
	f.rules.On("ActiveRules", ctx, "prod-1").Return([]entity.CommissionRule{}, nil)
	f.sales.On("ApplyDecision", ctx, mock.Anything).Return(nil)

	f.users.On("FindByID", ctx, "S1").
		Return(&entity.User{ID: "S1", Name: "Sofia", Email: "sofia@ligue.com", Role: entity.UserRoleSDR}, nil)
	f.users.On("FindByID", ctx, "C1").
		Return(&entity.User{ID: "C1", Name: "Carlos", Email: "carlos@ligue.com", Role: entity.UserRoleCloser}, nil)

	var published queue.SaleApprovedPayload
	producer.On("PublishSaleApproved", ctx, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		published = args.Get(1).(queue.SaleApprovedPayload)
	})

	_, err := f.uc.Execute(ctx, DecideSaleInput{SaleID: "sale-1", AdminID: "admin-1", Action: ActionApprove})

	assert.NoError(t, err)
	assert.Equal(t, "sale-1", published.SaleID)
	assert.Len(t, published.Commissions, 2)
	emails := map[string]string{}
	for _, n := range published.Commissions {
		emails[n.Role] = n.RecipientEmail
	}
	assert.Equal(t, "sofia@ligue.com", emails[entity.RoleSDR])
	assert.Equal(t, "carlos@ligue.com", emails[entity.RoleCloser])
}

func TestApprovePublishFailureDoesNotFailDecision(t *testing.T) {
	ctx := context.Background()
	f := newDecideFixture(t)

	producer := new(MockQueueProducer)
	f.uc.Queue = producer

	f.sales.On("FindByID", ctx, "sale-1").Return(pendingSale(), nil)
	f.leads.On("FindByID", ctx, "lead-1").
		Return(&entity.Lead{ID: "lead-1", Name: "Maria", Phone: "11", Status: entity.LeadStatusPendingApproval}, nil)
	f.products.On("FindByID", ctx, "prod-1").Return(saleProduct(), nil)
	f.rules.On("ActiveRules", ctx, "prod-1").Return([]entity.CommissionRule{}, nil)
	f.sales.On("ApplyDecision", ctx, mock.Anything).Return(nil)
	f.users.On("FindByID", ctx, "C1").Return(&entity.User{ID: "C1", Name: "Carlos"}, nil)
	producer.On("PublishSaleApproved", ctx, mock.Anything).Return(errors.New("broker down"))

	output, err := f.uc.Execute(ctx, DecideSaleInput{SaleID: "sale-1", AdminID: "admin-1", Action: ActionApprove})

	// decisão já é durável no banco; fila fora do ar vira log, não erro
	assert.NoError(t, err)
	assert.Equal(t, entity.ApprovalApproved, output.ApprovalStatus)
}
