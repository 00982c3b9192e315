package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"domainnav/internal/domain/models"
	"domainnav/internal/manager"
	"domainnav/internal/manager/mocks"
	"domainnav/internal/platform/logger"
	id "domainnav/pkg/domain"
	"domainnav/pkg/testutil"
)

type ViewHandlerSuite struct {
	suite.Suite
	store  *mocks.MockStore
	view   *manager.Controller
	router chi.Router
	domain *models.Domain
	cancel context.CancelFunc
}

func TestViewHandlerSuite(t *testing.T) {
	suite.Run(t, new(ViewHandlerSuite))
}

func (s *ViewHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.store = mocks.NewMockStore(ctrl)
	s.view = manager.NewController(context.Background(), s.store, []string{"Efficiency", "Ease of Use"},
		manager.WithLogger(logger.Discard()))

	payload, _ := models.NewCreatePayload("Acme", models.DomainTypeTrust)
	s.domain = &models.Domain{ID: id.NewDomainID(), DomainName: payload.DomainName, Description: payload.Description, Perspectives: payload.Perspectives}

	snaps := make(chan manager.ListSnapshot, 1)
	snaps <- manager.ListSnapshot{Domains: []*models.Domain{s.domain}}
	s.store.EXPECT().Subscribe(gomock.Any()).Return((<-chan manager.ListSnapshot)(snaps), nil)
	var ctx context.Context
	ctx, s.cancel = context.WithCancel(context.Background())
	go func() { _ = s.view.Run(ctx) }()
	s.Require().Eventually(func() bool {
		return s.view.Page().Status == manager.StatusOK
	}, time.Second, 5*time.Millisecond)

	s.router = chi.NewRouter()
	New(s.view, logger.Discard()).Register(s.router)
}

func (s *ViewHandlerSuite) TearDownTest() {
	s.cancel()
	s.view.Wait()
}

func (s *ViewHandlerSuite) do(method, path string, body any) *viewResponse {
	var req *http.Request
	if body != nil {
		req = testutil.NewJSONRequest(s.T(), method, path, body)
	} else {
		req = testutil.NewRequest(s.T(), method, path)
	}
	rr := testutil.DoRequest(s.router, req)
	s.Require().Less(rr.Code, 300, rr.Body.String())
	return testutil.UnmarshalResponse[viewResponse](s.T(), rr)
}

func (s *ViewHandlerSuite) TestGetView() {
	resp := s.do(http.MethodGet, "/view", nil)
	s.Equal([]string{"Default", "Efficiency", "Ease of Use"}, resp.State.Perspectives)
	s.Equal(manager.StatusOK, resp.Page.Status)
	s.Require().Len(resp.Page.Cards, 1)
	s.Equal(models.IconLock, resp.Page.Cards[0].Icon)
	s.Len(resp.DomainTypes, 4)
}

func (s *ViewHandlerSuite) TestCreateFromDraft() {
	s.store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(s.domain, nil)

	resp := s.do(http.MethodPut, "/view/draft", draftRequest{Name: "Beta", Type: "Knowledge"})
	s.Equal(manager.DomainDraft{Name: "Beta", Type: "Knowledge"}, resp.State.NewDomainDraft)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, "/view/domains"))
	testutil.AssertStatus(s.T(), rr, http.StatusAccepted)
	s.view.Wait()

	notes := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/view/notifications"))
	body := testutil.UnmarshalResponse[notificationsResponse](s.T(), notes)
	s.Require().Len(body.Notifications, 1)
	s.Equal("Beta has been added successfully.", body.Notifications[0].Description)
}

func (s *ViewHandlerSuite) TestPerspectives() {
	resp := s.do(http.MethodPost, "/view/perspectives", nameRequest{Name: "Cost"})
	s.Contains(resp.State.Perspectives, "Cost")

	resp = s.do(http.MethodPut, "/view/perspectives/selected", nameRequest{Name: "Cost"})
	s.Equal("Cost", resp.State.SelectedPerspective)
	s.Equal(manager.MessageNoParticle, resp.Page.Cards[0].Message)

	resp = s.do(http.MethodDelete, "/view/perspectives/Cost", nil)
	s.NotContains(resp.State.Perspectives, "Cost")
	s.Equal("Default", resp.State.SelectedPerspective)

	resp = s.do(http.MethodDelete, "/view/perspectives/Ease%20of%20Use", nil)
	s.Equal([]string{"Default", "Efficiency"}, resp.State.Perspectives)

	resp = s.do(http.MethodDelete, "/view/perspectives/Default", nil)
	s.Equal([]string{"Default", "Efficiency"}, resp.State.Perspectives)
}

func (s *ViewHandlerSuite) TestRemovePerspectiveWithEscapedSlash() {
	resp := s.do(http.MethodPost, "/view/perspectives", nameRequest{Name: "Cost/Benefit"})
	s.Require().Contains(resp.State.Perspectives, "Cost/Benefit")

	resp = s.do(http.MethodDelete, "/view/perspectives/Cost%2FBenefit", nil)
	s.NotContains(resp.State.Perspectives, "Cost/Benefit")
	s.Equal([]string{"Default", "Efficiency", "Ease of Use"}, resp.State.Perspectives)

	resp = s.do(http.MethodPost, "/view/perspectives", nameRequest{Name: "50%"})
	s.Require().Contains(resp.State.Perspectives, "50%")
	resp = s.do(http.MethodDelete, "/view/perspectives/50%25", nil)
	s.NotContains(resp.State.Perspectives, "50%")
}

func (s *ViewHandlerSuite) TestEditAndSave() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, "/view/domains/"+id.NewDomainID().String()+"/edit"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")

	resp := s.do(http.MethodPost, "/view/domains/"+s.domain.ID.String()+"/edit", nil)
	s.True(resp.State.EditOpen)

	resp = s.do(http.MethodPut, "/view/edit/particles", particleRequest{Particle: "Trust Score", Value: "9"})
	s.Equal("9", resp.State.Editing.Perspectives["Default"]["Trust Score"])

	s.store.EXPECT().Update(gomock.Any(), s.domain.ID, gomock.Any()).Return(s.domain, nil)
	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, "/view/edit/save"))
	testutil.AssertStatus(s.T(), rr, http.StatusAccepted)
	s.view.Wait()

	resp = s.do(http.MethodGet, "/view", nil)
	s.False(resp.State.EditOpen)
	s.Nil(resp.State.Editing)
}

func (s *ViewHandlerSuite) TestDismissKeepsDraft() {
	s.do(http.MethodPost, "/view/domains/"+s.domain.ID.String()+"/edit", nil)
	s.do(http.MethodPut, "/view/edit/particles", particleRequest{Particle: "Trust Score", Value: "9"})

	resp := s.do(http.MethodPost, "/view/edit/dismiss", nil)
	s.False(resp.State.EditOpen)
	s.Require().NotNil(resp.State.Editing)
	s.Equal("9", resp.State.Editing.Perspectives["Default"]["Trust Score"])
}

func (s *ViewHandlerSuite) TestDelete() {
	s.store.EXPECT().Delete(gomock.Any(), s.domain.ID).Return(nil)
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, "/view/domains/"+s.domain.ID.String()))
	testutil.AssertStatus(s.T(), rr, http.StatusAccepted)
	s.view.Wait()
	s.Equal("Domain deleted", s.view.Notifications()[0].Title)
}

func (s *ViewHandlerSuite) TestMalformedBody() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPut, "/view/draft", map[string]int{"bogus": 1}))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
}
