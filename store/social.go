package store

// GetAlias returns the alias relationship (address -> alias) created at or
// after since, or nil when none exists.
func (s *Store) GetAlias(address, alias string, since uint64) (*Alias, error) {
	var row Alias
	err := s.db.Where("address = ? AND alias = ? AND created >= ?", address, alias, since).
		Order("created desc").First(&row).Error
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (s *Store) CreateAlias(row *Alias) error {
	return s.db.Create(row).Error
}

func (s *Store) GetFollow(follower, space string) (*Follow, error) {
	var row Follow
	err := s.db.Where("follower = ? AND space = ?", follower, space).First(&row).Error
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (s *Store) CountFollows(follower string) (uint64, error) {
	var total uint64
	err := s.db.Model(&Follow{}).Where("follower = ?", follower).Count(&total).Error
	return total, err
}

func (s *Store) CreateFollow(row *Follow) error {
	return s.db.Create(row).Error
}

func (s *Store) DeleteFollow(follower, space string) error {
	return s.db.Where("follower = ? AND space = ?", follower, space).Delete(&Follow{}).Error
}

func (s *Store) GetSubscription(address, space string) (*Subscription, error) {
	var row Subscription
	err := s.db.Where("address = ? AND space = ?", address, space).First(&row).Error
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (s *Store) CountSubscriptions(address string) (uint64, error) {
	var total uint64
	err := s.db.Model(&Subscription{}).Where("address = ?", address).Count(&total).Error
	return total, err
}

func (s *Store) CreateSubscription(row *Subscription) error {
	return s.db.Create(row).Error
}

func (s *Store) DeleteSubscription(address, space string) error {
	return s.db.Where("address = ? AND space = ?", address, space).Delete(&Subscription{}).Error
}

func (s *Store) SaveUser(row *User) error {
	return s.db.Save(row).Error
}

func (s *Store) SaveStatement(delegate, space string, row *Statement) error {
	var existing Statement
	err := s.db.Where("delegate = ? AND space = ?", delegate, space).First(&existing).Error
	if err != nil {
		if !notFound(err) {
			return err
		}
		return s.db.Create(row).Error
	}
	row.ID = existing.ID
	row.Created = existing.Created
	return s.db.Save(row).Error
}

func (s *Store) SaveMessage(row *Message) error {
	return s.db.Save(row).Error
}
