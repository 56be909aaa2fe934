package model

// All 返回全部持久化模型，SQLite 开发库与测试自动建表使用
func All() []interface{} {
	return []interface{}{
		&User{},
		&Salon{},
		&SalonPhoto{},
		&Review{},
		&Service{},
		&Staff{},
		&StaffSkill{},
		&WeeklySchedule{},
		&SpecialDay{},
		&StaffUnavailability{},
	}
}
