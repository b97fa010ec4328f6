package fields

// Internal field keys of the membership schema.
const (
	KeyFirstName          = "first_name"
	KeyLastName           = "last_name"
	KeyGender             = "gender"
	KeySalutationFormal   = "salutation_formal"
	KeySalutationInformal = "salutation_informal"
	KeyCoupleCategory     = "couple_category"
	KeyRecordStatus       = "record_status"
	KeyEntryChannel       = "entry_channel"
	KeyLanguage           = "language"
	KeyBirthday           = "birthday"
	KeyRemarks            = "remarks"
	KeyInterests          = "interests"

	KeyMembershipCountry      = "membership_country"
	KeyMembershipCanton       = "membership_canton"
	KeyMembershipRegion       = "membership_region"
	KeyMembershipMunicipality = "membership_municipality"
	KeyMembershipYoungWing    = "membership_young_wing"
	KeyMembershipStart        = "membership_start"
	KeyMembershipEnd          = "membership_end"

	KeyPhoneMobile   = "phone_mobile"
	KeyPhoneLandline = "phone_landline"
	KeyPhoneWork     = "phone_work"
	KeyPhoneStatus   = "phone_status"

	KeyEmail1      = "email1"
	KeyEmail2      = "email2"
	KeyEmailStatus = "email_status"

	KeyAddress1   = "address1"
	KeyAddress2   = "address2"
	KeyZip        = "zip"
	KeyCity       = "city"
	KeyCountry    = "country"
	KeyPostStatus = "post_status"
)

// Membership tier values, ordered weakest to strongest.
const (
	TierNotMember   = "not_member"
	TierSympathiser = "sympathiser"
	TierUnconfirmed = "unconfirmed"
	TierMember      = "member"
	TierResigned    = "resigned"
	TierExpelled    = "expelled"
)

// Contact channel statuses shared by phone, email and postal fields.
const (
	StatusActive   = "active"
	StatusInvalid  = "invalid"
	StatusUnwanted = "unwanted"
)

// Record statuses.
const (
	RecordActive   = "active"
	RecordInactive = "inactive"
	RecordDied     = "died"
)

// GenderUnknown is the neutral gender value treated as "no statement".
const GenderUnknown = "n"

// CoupleSingle marks a record that has not been linked into a couple.
const CoupleSingle = "single"

// MembershipTierKeys lists the five tier fields in their schema order.
var MembershipTierKeys = []string{
	KeyMembershipCountry,
	KeyMembershipCanton,
	KeyMembershipRegion,
	KeyMembershipMunicipality,
	KeyMembershipYoungWing,
}

var tierOptions = []Option{
	{Internal: TierNotMember, External: "notMember"},
	{Internal: TierSympathiser, External: "sympathiser"},
	{Internal: TierUnconfirmed, External: "unconfirmed"},
	{Internal: TierMember, External: "member"},
	{Internal: TierResigned, External: "resigned"},
	{Internal: TierExpelled, External: "expelled"},
}

var statusOptions = []Option{
	{Internal: StatusActive, External: "active"},
	{Internal: StatusInvalid, External: "invalid"},
	{Internal: StatusUnwanted, External: "unwanted"},
}

// Default returns the membership record schema.
func Default() *Config {
	cfg, err := NewConfig([]Definition{
		{Key: KeyFirstName, ExternalKey: "firstName", Kind: KindText, MaxLength: 100},
		{Key: KeyLastName, ExternalKey: "lastName", Kind: KindText, MaxLength: 100},
		{Key: KeyGender, ExternalKey: "gender", Kind: KindSelect, Options: []Option{
			{Internal: "m", External: "male"},
			{Internal: "f", External: "female"},
			{Internal: GenderUnknown, External: "neutral"},
		}},
		{Key: KeySalutationFormal, ExternalKey: "salutationFormal", Kind: KindFree},
		{Key: KeySalutationInformal, ExternalKey: "salutationInformal", Kind: KindFree},
		{Key: KeyCoupleCategory, ExternalKey: "coupleCategory", Kind: KindSelect, Options: []Option{
			{Internal: CoupleSingle, External: "single"},
			{Internal: "couple", External: "couple"},
			{Internal: "household", External: "household"},
		}},
		{Key: KeyRecordStatus, ExternalKey: "recordStatus", Kind: KindSelect, Options: []Option{
			{Internal: RecordActive, External: "active"},
			{Internal: RecordInactive, External: "inactive"},
			{Internal: RecordDied, External: "died"},
		}},
		{Key: KeyEntryChannel, ExternalKey: "entryChannel", Kind: KindFree},
		{Key: KeyLanguage, ExternalKey: "language", Kind: KindSelect, Options: []Option{
			{Internal: "de", External: "german"},
			{Internal: "fr", External: "french"},
			{Internal: "it", External: "italian"},
			{Internal: "en", External: "english"},
		}},
		{Key: KeyBirthday, ExternalKey: "birthday", Kind: KindDate},
		{Key: KeyRemarks, ExternalKey: "remarks", Kind: KindLongText},
		{Key: KeyInterests, ExternalKey: "interests", Kind: KindMultiSelect, Options: []Option{
			{Internal: "politics", External: "politics"},
			{Internal: "environment", External: "environment"},
			{Internal: "social", External: "social"},
			{Internal: "culture", External: "culture"},
			{Internal: "sport", External: "sport"},
		}},

		{Key: KeyMembershipCountry, ExternalKey: "membershipCountry", Kind: KindSelect, Options: tierOptions},
		{Key: KeyMembershipCanton, ExternalKey: "membershipCanton", Kind: KindSelect, Options: tierOptions},
		{Key: KeyMembershipRegion, ExternalKey: "membershipRegion", Kind: KindSelect, Options: tierOptions},
		{Key: KeyMembershipMunicipality, ExternalKey: "membershipMunicipality", Kind: KindSelect, Options: tierOptions},
		{Key: KeyMembershipYoungWing, ExternalKey: "membershipYoungWing", Kind: KindSelect, Options: tierOptions},
		{Key: KeyMembershipStart, ExternalKey: "membershipStart", Kind: KindDate},
		{Key: KeyMembershipEnd, ExternalKey: "membershipEnd", Kind: KindDate},

		{Key: KeyPhoneMobile, ExternalKey: "phoneMobile", Kind: KindText, MaxLength: 30},
		{Key: KeyPhoneLandline, ExternalKey: "phoneLandline", Kind: KindText, MaxLength: 30},
		{Key: KeyPhoneWork, ExternalKey: "phoneWork", Kind: KindText, MaxLength: 30},
		{Key: KeyPhoneStatus, ExternalKey: "phoneStatus", Kind: KindSelect, Options: statusOptions},

		{Key: KeyEmail1, ExternalKey: "email1", Kind: KindText, MaxLength: 254},
		{Key: KeyEmail2, ExternalKey: "email2", Kind: KindText, MaxLength: 254},
		{Key: KeyEmailStatus, ExternalKey: "emailStatus", Kind: KindSelect, Options: statusOptions},

		{Key: KeyAddress1, ExternalKey: "address1", Kind: KindText, MaxLength: 150},
		{Key: KeyAddress2, ExternalKey: "address2", Kind: KindText, MaxLength: 150},
		{Key: KeyZip, ExternalKey: "zip", Kind: KindText, MaxLength: 10},
		{Key: KeyCity, ExternalKey: "city", Kind: KindText, MaxLength: 100},
		{Key: KeyCountry, ExternalKey: "country", Kind: KindText, MaxLength: 100},
		{Key: KeyPostStatus, ExternalKey: "postStatus", Kind: KindSelect, Options: statusOptions},
	})
	if err != nil {
		panic(err)
	}
	return cfg
}

// TierRank returns the merge precedence of a membership tier value. Unknown
// values rank below every known tier.
func TierRank(tier string) int {
	switch tier {
	case TierNotMember:
		return 1
	case TierSympathiser:
		return 2
	case TierUnconfirmed:
		return 3
	case TierMember:
		return 4
	case TierResigned:
		return 5
	case TierExpelled:
		return 6
	default:
		return 0
	}
}

// TierScore returns the master-selection weight of a membership tier value.
// Weights are spaced so one member flag outweighs five sympathiser flags and
// one unconfirmed plus four sympathiser flags.
func TierScore(tier string) int {
	switch tier {
	case TierMember:
		return 11
	case TierUnconfirmed:
		return 6
	case TierSympathiser:
		return 1
	default:
		return 0
	}
}
