package registry

import (
	"sync"
	"testing"

	"github.com/hackvoyage/voyager/internal/instance"
	"github.com/stretchr/testify/suite"
)

type RegistryTestSuite struct {
	suite.Suite
	registry *Registry
}

func (s *RegistryTestSuite) SetupTest() {
	s.registry = New()
}

func TestRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (s *RegistryTestSuite) TestCreate_OnePerChannel() {
	err := s.registry.Create(&instance.Config{ChannelID: "chan-1", Name: "Epic Quest"})
	s.Require().NoError(err)

	err = s.registry.Create(&instance.Config{ChannelID: "chan-1", Name: "Bold Saga"})
	s.ErrorIs(err, ErrInstanceExists)

	s.Equal(1, s.registry.Len())
	s.True(s.registry.Has("chan-1"))
}

func (s *RegistryTestSuite) TestCreate_InvalidConfig() {
	err := s.registry.Create(&instance.Config{})
	s.ErrorIs(err, instance.ErrMissingChannelID)
	s.Equal(0, s.registry.Len())
}

func (s *RegistryTestSuite) TestWith_UnknownChannel() {
	err := s.registry.With("chan-404", func(i *instance.Instance) error {
		s.Fail("fn must not run for an unknown channel")
		return nil
	})
	s.ErrorIs(err, ErrInstanceNotFound)
}

func (s *RegistryTestSuite) TestWith_SerializesAccess() {
	err := s.registry.Create(&instance.Config{ChannelID: "chan-1", Name: "Epic Quest"})
	s.Require().NoError(err)

	// concurrent roster mutations must not be lost
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.registry.With("chan-1", func(i *instance.Instance) error {
				i.AddPlayer("user-a")
				i.AddPlayer("user-b")
				i.RemovePlayer("user-b")
				return nil
			})
		}()
	}
	wg.Wait()

	err = s.registry.With("chan-1", func(i *instance.Instance) error {
		s.Equal(1, i.PlayerCount())
		return nil
	})
	s.Require().NoError(err)
}

func (s *RegistryTestSuite) TestRemove() {
	err := s.registry.Create(&instance.Config{ChannelID: "chan-1", Name: "Epic Quest"})
	s.Require().NoError(err)

	s.registry.Remove("chan-1")
	s.registry.Remove("chan-1") // no-op

	s.False(s.registry.Has("chan-1"))
	s.Equal(0, s.registry.Len())
}

func (s *RegistryTestSuite) TestChannelIDs_Sorted() {
	for _, channelID := range []string{"chan-3", "chan-1", "chan-2"} {
		err := s.registry.Create(&instance.Config{ChannelID: channelID})
		s.Require().NoError(err)
	}

	s.Equal([]string{"chan-1", "chan-2", "chan-3"}, s.registry.ChannelIDs())
}
