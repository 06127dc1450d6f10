package testserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/bridge"
)

func (s *Server) handleSignIn(c *gin.Context) {
	var signIn bridge.SignIn
	if err := c.ShouldBindJSON(&signIn); err != nil {
		abortWithError(c, bridge.NewError(bridge.KindBadRequest, "invalid sign-in request"))
		return
	}
	if signIn.AppID != s.appID {
		abortWithError(c, bridge.NewError(bridge.KindNotFound, "app not found: "+signIn.AppID))
		return
	}
	acct, err := s.store.authenticate(signIn.Email, signIn.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}
	token, err := s.jwt.issueToken(acct)
	if err != nil {
		abortWithError(c, err)
		return
	}
	s.store.addSession(token, acct.ID)
	s.logger.Debug("signed in", zap.String("email", acct.Email))
	c.JSON(http.StatusOK, sessionInfo(acct, token))
}

func (s *Server) handleSignOut(c *gin.Context) {
	s.store.removeSession(c.GetHeader(sessionHeader))
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

func (s *Server) handleCreateUser(c *gin.Context) {
	var signUp bridge.SignUp
	if err := c.ShouldBindJSON(&signUp); err != nil {
		abortWithError(c, bridge.NewError(bridge.KindBadRequest, "invalid sign-up request"))
		return
	}
	if signUp.Email == "" || signUp.Password == "" {
		abortWithError(c, bridge.NewError(bridge.KindBadRequest, "email and password are required"))
		return
	}
	acct, err := s.store.createAccount(signUp)
	if err != nil {
		abortWithError(c, err)
		return
	}
	s.logger.Debug("created account", zap.String("email", acct.Email))
	c.JSON(http.StatusCreated, sessionInfo(acct, ""))
}

func (s *Server) handleDeleteUser(c *gin.Context) {
	if err := s.store.deleteAccount(c.Param("userId")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}

func (s *Server) handleGetActivityEvents(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.eventList(currentAccount(c)))
}

func (s *Server) handleCreateCustomActivityEvent(c *gin.Context) {
	var req bridge.CustomActivityEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bridge.NewError(bridge.KindBadRequest, "invalid activity event request"))
		return
	}
	if err := s.store.upsertCustomEvent(currentAccount(c), req); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "event recorded"})
}

func (s *Server) handleGetParticipantActivityEvents(c *gin.Context) {
	acct, ok := s.store.accountByID(c.Param("userId"))
	if !ok {
		abortWithError(c, bridge.NewError(bridge.KindNotFound, "participant not found"))
		return
	}
	c.JSON(http.StatusOK, s.store.eventList(acct))
}

func (s *Server) handleCreateParticipantActivityEvent(c *gin.Context) {
	acct, ok := s.store.accountByID(c.Param("userId"))
	if !ok {
		abortWithError(c, bridge.NewError(bridge.KindNotFound, "participant not found"))
		return
	}
	var req bridge.CustomActivityEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bridge.NewError(bridge.KindBadRequest, "invalid activity event request"))
		return
	}
	if err := s.store.upsertCustomEvent(acct, req); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "event recorded"})
}

func (s *Server) handleGetParticipant(c *gin.Context) {
	c.JSON(http.StatusOK, participantRecord(currentAccount(c)))
}

func (s *Server) handleUpdateParticipant(c *gin.Context) {
	var update bridge.StudyParticipant
	if err := c.ShouldBindJSON(&update); err != nil {
		abortWithError(c, bridge.NewError(bridge.KindBadRequest, "invalid participant record"))
		return
	}
	acct := currentAccount(c)
	s.store.mu.Lock()
	acct.DataGroups = append([]string(nil), update.DataGroups...)
	s.store.mu.Unlock()
	c.JSON(http.StatusOK, participantRecord(acct))
}

func (s *Server) handleGetStudy(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.getStudy())
}

func (s *Server) handleGetApp(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.getApp())
}

func (s *Server) handleUpdateApp(c *gin.Context) {
	var update bridge.App
	if err := c.ShouldBindJSON(&update); err != nil {
		abortWithError(c, bridge.NewError(bridge.KindBadRequest, "invalid app"))
		return
	}
	// Reject unparseable recipes up front; expansion at account creation
	// silently skips anything invalid, so validation has to happen here.
	for _, recipe := range update.AutomaticCustomEvents {
		if _, _, err := parseRecipe(recipe); err != nil {
			abortWithError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, s.store.updateApp(update))
}

func (s *Server) handleCreateAppConfig(c *gin.Context) {
	var cfg bridge.AppConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		abortWithError(c, bridge.NewError(bridge.KindBadRequest, "invalid app config"))
		return
	}
	c.JSON(http.StatusCreated, s.store.createAppConfig(&cfg))
}

func (s *Server) handleUpdateAppConfig(c *gin.Context) {
	var cfg bridge.AppConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		abortWithError(c, bridge.NewError(bridge.KindBadRequest, "invalid app config"))
		return
	}
	holder, err := s.store.updateAppConfig(c.Param("guid"), &cfg)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, holder)
}

func (s *Server) handleGetAppConfig(c *gin.Context) {
	cfg, err := s.store.getAppConfig(c.Param("guid"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (s *Server) handleListAppConfigs(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.listAppConfigs())
}

func (s *Server) handleDeleteAppConfig(c *gin.Context) {
	if err := s.store.deleteAppConfig(c.Param("guid")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "app config deleted"})
}

func (s *Server) handleGetUsersAppConfig(c *gin.Context) {
	cfg, err := s.store.selectAppConfig(currentAccount(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func sessionInfo(acct *account, token string) bridge.UserSessionInfo {
	return bridge.UserSessionInfo{
		ID:            acct.ID,
		Email:         acct.Email,
		SessionToken:  token,
		Authenticated: token != "",
		Consented:     acct.Consented,
		Roles:         acct.Roles,
		DataGroups:    acct.DataGroups,
	}
}

func participantRecord(acct *account) bridge.StudyParticipant {
	return bridge.StudyParticipant{
		ID:         acct.ID,
		Email:      acct.Email,
		Roles:      acct.Roles,
		DataGroups: append([]string(nil), acct.DataGroups...),
		CreatedOn:  acct.CreatedOn,
		Consented:  acct.Consented,
	}
}
