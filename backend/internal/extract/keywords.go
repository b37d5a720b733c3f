package extract

// The extractor is a deterministic rule engine: a fixed gate keyword set
// decides whether a message is job-related at all, and ordered rule tables
// decide which entities and relations it yields. Growing these tables is the
// extension point; the engine in extractor.go never changes with them.

// RuleTable bundles every keyword table the engine consults
type RuleTable struct {
	// JobKeywords gates extraction: a message matching none of these is
	// dropped entirely.
	JobKeywords []string

	// Skills maps to "skill" entities named by the canonical form
	Skills []string

	// Roles maps to "role" entities; the matched keyword is expanded with
	// an adjacent latin qualifier, so "Python工程师" stays one role.
	Roles []string

	// Companies maps to "company" entities named by the canonical form
	Companies []string

	// PreferenceMarkers route the surrounding fragment onto the synthetic
	// per-user "preferences" entity.
	PreferenceMarkers []string
}

// DefaultRules returns the built-in rule table
func DefaultRules() RuleTable {
	return RuleTable{
		JobKeywords: []string{
			"求职", "简历", "面试", "招聘", "职位", "工作", "就业", "职业", "薪资", "薪水",
			"技能", "能力", "经验", "学历", "背景", "专业", "行业", "公司", "岗位", "职责",
			"job", "resume", "interview", "recruitment", "position", "work", "employment",
			"career", "salary", "skill", "experience", "education", "background",
			"profession", "industry", "company", "role", "responsibility",
		},
		Skills: []string{
			"Python", "Java", "Golang", "JavaScript", "TypeScript", "C++", "Rust",
			"SQL", "React", "Vue", "Docker", "Kubernetes", "Linux", "Git",
			"机器学习", "深度学习", "数据分析", "大数据", "云计算", "算法", "前端", "后端",
		},
		Roles: []string{
			"工程师", "程序员", "开发者", "产品经理", "设计师", "数据分析师", "架构师", "测试",
			"engineer", "developer", "designer", "product manager", "architect",
			"analyst", "intern",
		},
		Companies: []string{
			"阿里巴巴", "腾讯", "字节跳动", "百度", "华为", "美团", "京东", "网易", "小米", "滴滴",
			"Google", "Microsoft", "Amazon", "Apple", "Meta", "Netflix", "OpenAI",
		},
		PreferenceMarkers: []string{
			"想找", "想要", "希望", "喜欢", "期望", "倾向",
			"looking for", "hoping to", "prefer", "would like", "want to",
		},
	}
}
