package domain

// SeedScore is the initial rating for every bucket of a new user.
const SeedScore = 1000

// Rating is one bucket of a user's rating record.
type Rating struct {
	Score  int `json:"score"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// User is exclusively owned by the engine's user table. Rooms reference
// users by pointer but every mutation goes through the engine goroutine.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Hero    int    `json:"hero"`
	BanHero int    `json:"banHero"`
	Honor   int    `json:"honor"`

	Ng1v1 Rating `json:"ng1v1"`
	Ng5v5 Rating `json:"ng5v5"`
	Rk1v1 Rating `json:"rk1v1"`
	Rk5v5 Rating `json:"rk5v5"`

	// Lifecycle references; 0 means unset.
	RID    uint64 `json:"rid"`
	GID    uint64 `json:"gid"`
	GameID uint64 `json:"gameId"`

	Online        bool `json:"online"`
	StartPrestart bool `json:"-"`
	PrestartGet   bool `json:"-"`
}

func NewUser(id, name string) *User {
	seed := Rating{Score: SeedScore}
	return &User{
		ID:    id,
		Name:  name,
		Ng1v1: seed,
		Ng5v5: seed,
		Rk1v1: seed,
		Rk5v5: seed,
	}
}

// Rating returns the bucket record for mutation.
func (u *User) Rating(b Bucket) *Rating {
	switch b {
	case BucketNg1v1:
		return &u.Ng1v1
	case BucketRk1v1:
		return &u.Rk1v1
	case BucketRk5v5:
		return &u.Rk5v5
	default:
		return &u.Ng5v5
	}
}

// InMatch reports whether the user is attached to an active game.
func (u *User) InMatch() bool {
	return u.GameID != 0
}
