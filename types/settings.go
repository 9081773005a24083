package types

import "strings"

func containsFold(list []string, addr string) bool {
	for _, a := range list {
		if strings.EqualFold(a, addr) {
			return true
		}
	}
	return false
}

func (s *SpaceSettings) IsAdmin(addr string) bool {
	return containsFold(s.Admins, addr)
}

func (s *SpaceSettings) IsModerator(addr string) bool {
	return containsFold(s.Moderators, addr)
}

func (s *SpaceSettings) IsMember(addr string) bool {
	return containsFold(s.Members, addr)
}
